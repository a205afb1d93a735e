//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/job-finder/internal/config"
	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/internal/web"
	"github.com/honeycarbs/job-finder/pkg/adzuna"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

// InitializeServer wires the HTTP server and everything behind it
func InitializeServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*web.Server, func(), error) {
	wire.Build(
		// Infrastructure - Adzuna
		provideAdzunaConfig,
		adzuna.NewClient,
		provideJobProvider,

		// Optional infrastructure
		provideSessionStore,
		provideRecorder,
		provideExporter,

		// Services
		job.NewCoordinatorWithDeps,

		// Transport
		provideRouter,
		web.NewServer,
	)

	return nil, nil, nil
}
