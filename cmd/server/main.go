// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/observability"
	"wikiqa/internal/pipeline"
	"wikiqa/internal/server"
	"wikiqa/internal/source"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wikiqa server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("sourceProvider", cfg.Source.Provider),
	)

	obs := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	defer obs.Shutdown()

	src, err := buildSource(cfg, log, zapLog)
	if err != nil {
		zapLog.Fatal("document source init failed", zap.Error(err))
	}

	p := pipeline.New(cfg.Pipeline, src, log)
	srv := server.NewServer(cfg.Server, p, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}

func buildSource(cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (source.DocumentSource, error) {
	switch cfg.Source.Provider {
	case "elasticsearch":
		var es *source.ElasticSource
		err := retryWithBackoff(func() error {
			var initErr error
			es, initErr = source.NewElasticSource(cfg.Source.Elasticsearch, log)
			return initErr
		}, 3, 2*time.Second, zapLog, "elasticsearch init")
		if err != nil {
			return nil, err
		}
		return es, nil
	default:
		return source.NewMediaWikiSource(cfg.Source.MediaWiki, log), nil
	}
}
