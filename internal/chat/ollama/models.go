// internal/chat/ollama/models.go
package ollama

// Message is one entry in the outbound chat sequence.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the normalized engine reply. Token counters default
// to zero when the engine omits them.
type ChatResponse struct {
	Text            string
	Model           string
	EvalCount       int
	PromptEvalCount int
}

// chatRequest is the wire body for POST /api/chat. Streaming is always
// disabled; the orchestrator makes one blocking round-trip.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// chatWire is the current /api/chat reply shape.
type chatWire struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	EvalCount       int `json:"eval_count"`
	PromptEvalCount int `json:"prompt_eval_count"`
}

// generateWire is the older completion-style reply shape, kept for
// engines that still answer with a flat response field.
type generateWire struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	EvalCount       int    `json:"eval_count"`
	PromptEvalCount int    `json:"prompt_eval_count"`
}

// tagsWire is the reply shape of GET /api/tags. Older engines populate
// name, newer ones model; both are accepted.
type tagsWire struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}
