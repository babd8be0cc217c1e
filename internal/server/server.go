// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"heatmap-chat/internal/chat/orchestrator"
	"heatmap-chat/internal/common/errors"
	"heatmap-chat/internal/common/logger"
	"heatmap-chat/internal/heatmap/aggregate"
	"heatmap-chat/internal/heatmap/export"
	"heatmap-chat/internal/heatmap/store"
)

// sampleLimit caps the context debug payload. The projector itself
// returns the full sequence; slicing is this caller's job.
const sampleLimit = 50

// ChatService is the orchestration surface the server depends on.
type ChatService interface {
	Chat(ctx context.Context, message string, key store.FilterKey, history []orchestrator.Turn) (*orchestrator.InferenceResult, error)
	ProbeHealth(ctx context.Context) orchestrator.HealthStatus
}

// Aggregator computes context summaries.
type Aggregator interface {
	Aggregate(key store.FilterKey) (*aggregate.ContextSummary, error)
}

// Projector flattens raw rows.
type Projector interface {
	Project(key store.FilterKey) ([]export.RowRecord, error)
}

// Server exposes the chat, health, and context endpoints. It owns no
// state beyond its collaborators.
type Server struct {
	chat       ChatService
	aggregator Aggregator
	projector  Projector
	model      string
	logger     logger.Logger
}

func New(chat ChatService, aggregator Aggregator, projector Projector, model string, log logger.Logger) *Server {
	return &Server{
		chat:       chat,
		aggregator: aggregator,
		projector:  projector,
		model:      model,
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Register mounts the API routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat/message", s.handleMessage)
	mux.HandleFunc("GET /api/chat/health", s.handleHealth)
	mux.HandleFunc("GET /api/chat/context", s.handleContext)
}

type filterContext struct {
	Month   int    `json:"month"`
	Hour    int    `json:"hour"`
	DayType string `json:"day_type"`
}

func (f filterContext) key() (store.FilterKey, error) {
	dayType, err := store.ParseDayType(f.DayType)
	if err != nil {
		return store.FilterKey{}, err
	}
	return store.FilterKey{Month: f.Month, Hour: f.Hour, DayType: dayType}, nil
}

type chatRequest struct {
	Message string              `json:"message"`
	Context filterContext       `json:"context"`
	History []orchestrator.Turn `json:"history"`
}

type chatResponse struct {
	Response   string `json:"response"`
	Timestamp  int64  `json:"timestamp"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	key, err := req.Context.key()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Pre-check: a reachable engine without the model is reported here,
	// not discovered at dispatch time.
	health := s.chat.ProbeHealth(r.Context())
	if health.Status != orchestrator.StatusConnected {
		detail := fmt.Sprintf("inference engine is not available: %s", health.Error)
		if health.Status == orchestrator.StatusDegraded {
			unavailable := errors.NewInferenceUnavailableError(s.model)
			detail = fmt.Sprintf("%s: %s", unavailable.Message, unavailable.Details)
		}
		s.writeError(w, http.StatusServiceUnavailable, detail)
		return
	}

	result, err := s.chat.Chat(r.Context(), req.Message, key, req.History)
	if err != nil {
		if errors.IsValidation(err) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("chat request failed", map[string]interface{}{
			"filterKey": key.String(),
		})
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		Response:   result.Text,
		Timestamp:  time.Now().UnixMilli(),
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
	})
}

type healthResponse struct {
	Status       string `json:"status"`
	OllamaStatus string `json:"ollama_status"`
	Model        string `json:"model"`
	ModelLoaded  bool   `json:"model_loaded"`
	Error        string `json:"error,omitempty"`
	Timestamp    string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.chat.ProbeHealth(r.Context())

	overall := "ok"
	if health.Status != orchestrator.StatusConnected {
		overall = "degraded"
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:       overall,
		OllamaStatus: health.Status,
		Model:        s.model,
		ModelLoaded:  health.ModelLoaded,
		Error:        health.Error,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

type contextResponse struct {
	Metadata   map[string]interface{} `json:"metadata"`
	SampleData []export.RowRecord     `json:"sample_data"`
	Note       string                 `json:"note,omitempty"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fc filterContext
	if _, err := fmt.Sscan(q.Get("month"), &fc.Month); err != nil {
		s.writeError(w, http.StatusBadRequest, "month must be an integer")
		return
	}
	if _, err := fmt.Sscan(q.Get("hour"), &fc.Hour); err != nil {
		s.writeError(w, http.StatusBadRequest, "hour must be an integer")
		return
	}
	fc.DayType = q.Get("day_type")

	key, err := fc.key()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.aggregator.Aggregate(key)
	if err != nil {
		s.writeStandardError(w, err)
		return
	}

	records, err := s.projector.Project(key)
	if err != nil {
		s.writeStandardError(w, err)
		return
	}

	resp := contextResponse{
		Metadata: map[string]interface{}{
			"total_records": summary.TotalRecords,
			"query":         fc,
		},
		SampleData: records,
	}
	if len(records) > sampleLimit {
		resp.Note = fmt.Sprintf("Showing %d of %d records", sampleLimit, len(records))
		resp.SampleData = records[:sampleLimit]
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeStandardError(w http.ResponseWriter, err error) {
	if errors.IsValidation(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}
