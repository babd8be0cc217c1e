// internal/chat/orchestrator/models.go
package orchestrator

// Turn is one caller-owned entry of conversation history.
type Turn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// InferenceResult is the normalized outcome of one dispatch.
type InferenceResult struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// HealthStatus reports engine reachability and model availability.
type HealthStatus struct {
	Status          string   `json:"status"` // connected, degraded, disconnected
	ModelLoaded     bool     `json:"model_loaded"`
	AvailableModels []string `json:"available_models"`
	Error           string   `json:"error,omitempty"`
}

const (
	StatusConnected    = "connected"
	StatusDegraded     = "degraded"
	StatusDisconnected = "disconnected"
)
