package job

import (
	"context"

	"github.com/honeycarbs/job-finder/internal/domain"
)

// Provider represents the external job data source
type Provider interface {
	// e.g. "adzuna"
	Name() string

	// Search returns one page of listings for q. Failures carry a display string only.
	Search(ctx context.Context, q domain.Query) (domain.ResultPage, error)

	// Categories lists job categories for a country
	Categories(ctx context.Context, country string) ([]domain.Category, error)
}
