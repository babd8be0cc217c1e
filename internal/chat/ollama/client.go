// internal/chat/ollama/client.go
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"heatmap-chat/internal/common/config"
	"heatmap-chat/internal/common/logger"
)

// ResponseFormat selects which historical reply shape the engine
// speaks. The decoder is fixed at client construction so no per-call
// shape inspection happens on the hot path.
type ResponseFormat int

const (
	FormatChat ResponseFormat = iota
	FormatLegacy
)

// ParseResponseFormat maps the config string to a format.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch s {
	case "", "chat":
		return FormatChat, nil
	case "legacy":
		return FormatLegacy, nil
	default:
		return FormatChat, fmt.Errorf("unknown response format %q", s)
	}
}

type decodeFunc func([]byte) (*ChatResponse, error)

// Client talks to one Ollama endpoint with one configured model. It is
// constructed once and reused for the process lifetime; all methods
// are safe for concurrent use.
type Client struct {
	host   string
	model  string
	client *http.Client
	decode decodeFunc
	logger logger.Logger
}

func NewClient(cfg config.OllamaConfig, log logger.Logger) (*Client, error) {
	format, err := ParseResponseFormat(cfg.ResponseFormat)
	if err != nil {
		return nil, err
	}

	decode := decodeChat
	if format == FormatLegacy {
		decode = decodeLegacy
	}

	return &Client{
		host:   strings.TrimRight(cfg.Host, "/"),
		model:  cfg.Model,
		client: &http.Client{Timeout: config.GetDuration(cfg.Timeout)},
		decode: decode,
		logger: log.WithFields(map[string]interface{}{
			"component": "ollama-client",
			"host":      cfg.Host,
			"model":     cfg.Model,
		}),
	}, nil
}

// Host returns the engine base URL.
func (c *Client) Host() string {
	return c.host
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// ListModels fetches the available-model manifest.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var tags tagsWire
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// ChatCompletion sends the assembled message sequence in one blocking
// call. No retry happens here: exactly one attempt per request.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.decode(body)
	if err != nil {
		return nil, err
	}
	if resp.Model == "" {
		resp.Model = c.model
	}

	c.logger.Debug("chat completed", map[string]interface{}{
		"durationMs": time.Since(start).Milliseconds(),
		"evalCount":  resp.EvalCount,
	})
	return resp, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request to %s failed: %w", c.host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ollama response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func decodeChat(body []byte) (*ChatResponse, error) {
	var wire chatWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &ChatResponse{
		Text:            wire.Message.Content,
		Model:           wire.Model,
		EvalCount:       wire.EvalCount,
		PromptEvalCount: wire.PromptEvalCount,
	}, nil
}

func decodeLegacy(body []byte) (*ChatResponse, error) {
	var wire generateWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode legacy response: %w", err)
	}
	return &ChatResponse{
		Text:            wire.Response,
		Model:           wire.Model,
		EvalCount:       wire.EvalCount,
		PromptEvalCount: wire.PromptEvalCount,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
