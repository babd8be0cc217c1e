// internal/chat/orchestrator/health.go
package orchestrator

import (
	"context"
	"fmt"
)

// ProbeHealth queries the engine's model manifest. Transport failures
// are captured in the returned status, never propagated: an
// unreachable engine is a reportable state, not an error.
func (o *Orchestrator) ProbeHealth(ctx context.Context) HealthStatus {
	models, err := o.client.ListModels(ctx)
	if err != nil {
		o.logger.WithError(err).Warn("health probe failed", nil)
		return HealthStatus{
			Status:          StatusDisconnected,
			ModelLoaded:     false,
			AvailableModels: []string{},
			Error:           fmt.Sprintf("cannot connect to ollama at %s: %v", o.client.Host(), err),
		}
	}

	configured := o.client.Model()
	loaded := false
	for _, m := range models {
		if m == configured {
			loaded = true
			break
		}
	}

	status := HealthStatus{
		Status:          StatusConnected,
		ModelLoaded:     loaded,
		AvailableModels: models,
	}
	if !loaded {
		status.Status = StatusDegraded
		status.Error = fmt.Sprintf("model %s not found, run: ollama pull %s", configured, configured)
	}
	return status
}
