package app

import (
	"context"
	"net/http"

	"github.com/honeycarbs/job-finder/internal/config"
	"github.com/honeycarbs/job-finder/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/job-finder/internal/domain/job/providers/adzuna"
	"github.com/honeycarbs/job-finder/internal/export"
	"github.com/honeycarbs/job-finder/internal/mcp"
	"github.com/honeycarbs/job-finder/internal/storage/memory"
	storageneo4j "github.com/honeycarbs/job-finder/internal/storage/neo4j"
	storageredis "github.com/honeycarbs/job-finder/internal/storage/redis"
	"github.com/honeycarbs/job-finder/internal/web"
	"github.com/honeycarbs/job-finder/pkg/adzuna"
	"github.com/honeycarbs/job-finder/pkg/logging"
	n4j "github.com/honeycarbs/job-finder/pkg/neo4j"
	"github.com/honeycarbs/job-finder/pkg/sheets"
)

// provideAdzunaConfig extracts Adzuna config from main config
func provideAdzunaConfig(cfg config.Config, logger *logging.Logger) adzuna.Config {
	return adzuna.Config{
		AppID:   cfg.Adzuna.AppID,
		AppKey:  cfg.Adzuna.AppKey,
		BaseURL: cfg.Adzuna.BaseURL,
		Logger:  logger.Named("adzuna"),
	}
}

func provideJobProvider(client *adzuna.Client) (job.Provider, error) {
	return adzunaProvider.NewProvider(client)
}

// provideSessionStore picks Redis when REDIS_URL is set and the in-memory
// store otherwise.
func provideSessionStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.SessionStore, func(), error) {
	if cfg.Session.RedisURL != "" {
		client, err := storageredis.NewClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := storageredis.NewSessionStore(client, cfg.Session.TTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("sessions stored in redis", "ttl", cfg.Session.TTL)
		return store, func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close redis client", "err", err)
			}
		}, nil
	}

	store, err := memory.NewSessionStore(cfg.Session.TTL, logger.Named("sessions"))
	if err != nil {
		return nil, nil, err
	}
	if err := store.Start(); err != nil {
		return nil, nil, err
	}
	logger.Info("sessions stored in memory", "ttl", cfg.Session.TTL)
	return store, store.Stop, nil
}

// provideRecorder connects to Neo4j when configured. The returned
// recorder is a nil interface otherwise.
func provideRecorder(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Recorder, func(), error) {
	if !cfg.Neo4jEnabled() {
		return nil, func() {}, nil
	}

	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	})
	if err != nil {
		return nil, nil, err
	}
	recorder, err := storageneo4j.NewListingRecorder(client)
	if err != nil {
		_ = client.Close(ctx)
		return nil, nil, err
	}

	logger.Info("recording listings to neo4j", "uri", cfg.Neo4j.URI)
	return recorder, func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("failed to close neo4j client", "err", err)
		}
	}, nil
}

// provideExporter builds the Sheets exporter when configured
func provideExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Exporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	return export.NewSheetsExporter(client, cfg.Sheets.SpreadsheetID, cfg.Sheets.Tab, logger.Named("export"))
}

// provideRouter mounts the UI, the JSON API and the MCP endpoint on one engine
func provideRouter(
	cfg config.Config,
	coord *job.Coordinator,
	provider job.Provider,
	logger *logging.Logger,
) (http.Handler, error) {
	return web.NewRouter(web.Deps{
		Coordinator:   coord,
		Provider:      provider,
		MCP:           mcp.NewHandler(provider, logger.Named("mcp")),
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	})
}
