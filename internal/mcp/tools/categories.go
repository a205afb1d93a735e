package tools

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
)

type JobCategoriesParams struct {
	Country string `json:"country" jsonschema:"Two-letter Adzuna country code"`
}

type JobCategoriesResult struct {
	Categories []domain.Category `json:"categories"`
}

// WithJobCategories registers the job_categories tool
func WithJobCategories() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_categories",
			Description: "List the Adzuna job categories available for a country",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, jobCategories(reg.provider))
	}
}

func jobCategories(provider job.Provider) sdkmcp.ToolHandlerFor[JobCategoriesParams, JobCategoriesResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobCategoriesParams) (*sdkmcp.CallToolResult, JobCategoriesResult, error) {
		country := strings.ToLower(strings.TrimSpace(in.Country))
		if country == "" || country == domain.NoCountry {
			return nil, JobCategoriesResult{}, errors.New(job.NoCountryMessage)
		}

		cats, err := provider.Categories(ctx, country)
		if err != nil {
			return nil, JobCategoriesResult{}, err
		}
		if cats == nil {
			cats = []domain.Category{}
		}
		return nil, JobCategoriesResult{Categories: cats}, nil
	}
}
