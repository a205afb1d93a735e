package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/job-finder/internal/app"
	"github.com/honeycarbs/job-finder/internal/config"
	"github.com/honeycarbs/job-finder/pkg/logging"
	"github.com/honeycarbs/job-finder/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if !cfg.HasAdzunaCredentials() {
		logger.Warn("ADZUNA_APP_ID or ADZUNA_APP_KEY is not set; searches will fail")
	}

	srv, cleanup, err := app.InitializeServer(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", "err", err)
		os.Exit(1)
	}

	stopped := shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		srv,
		10*time.Second,
		logger,
		cleanup,
	)

	logger.Info("job finder initialized and starting",
		"addr", srv.Addr(),
		"sessions", sessionBackend(cfg),
		"neo4j", cfg.Neo4jEnabled(),
		"sheets", cfg.SheetsEnabled(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server exited with error", "err", err)
		shutdown.Now(srv, 10*time.Second, logger, cleanup)
		return
	}

	// Run returns as soon as Shutdown starts; wait for draining and cleanup
	<-stopped
	logger.Info("server stopped")
}

func sessionBackend(cfg config.Config) string {
	if cfg.Session.RedisURL != "" {
		return "redis"
	}
	return "memory"
}
