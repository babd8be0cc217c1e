// cmd/heatmap-chat/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"heatmap-chat/internal/chat/ollama"
	"heatmap-chat/internal/chat/orchestrator"
	"heatmap-chat/internal/common/config"
	"heatmap-chat/internal/common/logger"
	"heatmap-chat/internal/common/metrics"
	"heatmap-chat/internal/heatmap/aggregate"
	"heatmap-chat/internal/heatmap/export"
	"heatmap-chat/internal/heatmap/store"
	"heatmap-chat/internal/server"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting heatmap-chat")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level once config is known.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log = logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	// The snapshot is built once before serving begins and never
	// mutates afterwards, which keeps lookups lock-free.
	snapshot, err := buildSnapshot(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("snapshot build failed", zap.Error(err))
	}
	metrics.SnapshotRows.Set(float64(snapshot.Len()))
	zapLog.Info("snapshot ready",
		zap.Int("rows", snapshot.Len()),
		zap.Int("keys", snapshot.Keys()),
	)

	client, err := ollama.NewClient(cfg.Ollama, log)
	if err != nil {
		zapLog.Fatal("ollama client init failed", zap.Error(err))
	}

	engine := aggregate.NewEngine(snapshot, log)
	projector := export.NewProjector(snapshot, log)
	orch := orchestrator.New(engine, client, log)

	health := orch.ProbeHealth(ctx)
	zapLog.Info("inference engine probed",
		zap.String("status", health.Status),
		zap.Bool("modelLoaded", health.ModelLoaded),
	)

	mux := http.NewServeMux()
	server.New(orch, engine, projector, cfg.Ollama.Model, log).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddress,
		Handler: mux,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}

func buildSnapshot(ctx context.Context, cfg *config.Config, log logger.Logger) (*store.Snapshot, error) {
	if cfg.Dataset.Source == "redis" {
		client := store.NewRedisClient(cfg.Dataset.Redis)
		defer client.Close()
		return store.LoadRedis(ctx, client, cfg.Dataset.Redis.KeyPrefix, log)
	}
	return store.LoadCSV(cfg.Dataset.Path, log)
}
