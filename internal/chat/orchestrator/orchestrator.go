// internal/chat/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"heatmap-chat/internal/chat/ollama"
	"heatmap-chat/internal/chat/prompt"
	"heatmap-chat/internal/common/errors"
	"heatmap-chat/internal/common/logger"
	"heatmap-chat/internal/common/metrics"
	"heatmap-chat/internal/heatmap/aggregate"
	"heatmap-chat/internal/heatmap/store"
)

const (
	// maxHistoryTurns caps the history considered per request; with the
	// system instruction and the new user turn, at most 22 messages go
	// out regardless of the caller-supplied history length.
	maxHistoryTurns = 20

	maxMessageLength = 500
)

// InferenceClient is the consumed inference engine surface.
type InferenceClient interface {
	ListModels(ctx context.Context) ([]string, error)
	ChatCompletion(ctx context.Context, messages []ollama.Message) (*ollama.ChatResponse, error)
	Host() string
	Model() string
}

// Orchestrator assembles context summaries and conversation history
// into single inference dispatches. Stateless across requests; the
// engine and client are shared for the process lifetime.
type Orchestrator struct {
	engine *aggregate.Engine
	client InferenceClient
	logger logger.Logger
}

func New(engine *aggregate.Engine, client InferenceClient, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Chat validates the request, aggregates the data context, assembles
// the bounded message sequence, and performs exactly one blocking
// dispatch. Any engine failure propagates as an inference error naming
// the target endpoint; there is no retry here.
func (o *Orchestrator) Chat(ctx context.Context, message string, key store.FilterKey, history []Turn) (*InferenceResult, error) {
	if err := validateMessage(message); err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}

	requestID := uuid.NewString()
	log := o.logger.WithFields(map[string]interface{}{
		"requestId": requestID,
		"filterKey": key.String(),
	})

	summary, err := o.engine.Aggregate(key)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("aggregation_error").Inc()
		return nil, err
	}

	messages := assembleMessages(message, key, summary, history)

	log.Info("dispatching chat request", map[string]interface{}{
		"messageCount": len(messages),
		"historyLen":   len(history),
		"totalRecords": summary.TotalRecords,
	})

	start := time.Now()
	resp, err := o.client.ChatCompletion(ctx, messages)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("inference_error").Inc()
		log.WithError(err).Error("inference dispatch failed", nil)
		return nil, errors.NewInferenceError(o.client.Host(), err)
	}

	result := &InferenceResult{
		Text:       resp.Text,
		Model:      resp.Model,
		TokensUsed: resp.EvalCount + resp.PromptEvalCount,
	}

	metrics.ChatRequestsTotal.WithLabelValues("success").Inc()
	metrics.InferenceTokensUsed.Add(float64(result.TokensUsed))
	log.Info("chat request completed", map[string]interface{}{
		"tokensUsed": result.TokensUsed,
		"model":      result.Model,
	})
	return result, nil
}

// assembleMessages builds [system] + last maxHistoryTurns history
// turns (oldest first) + [new user turn]. Truncation drops oldest
// turns; the new user turn is never dropped.
func assembleMessages(message string, key store.FilterKey, summary *aggregate.ContextSummary, history []Turn) []ollama.Message {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]ollama.Message, 0, len(history)+2)
	messages = append(messages, ollama.Message{
		Role:    "system",
		Content: prompt.BuildSystemPrompt(key, summary),
	})
	for _, turn := range history {
		messages = append(messages, ollama.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ollama.Message{Role: "user", Content: message})
	return messages
}

func validateMessage(message string) error {
	if message == "" {
		return errors.NewValidationError("message must not be empty")
	}
	if n := utf8.RuneCountInString(message); n > maxMessageLength {
		return errors.NewValidationError(fmt.Sprintf("message exceeds %d characters, got %d", maxMessageLength, n))
	}
	return nil
}
