package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Country   string   `json:"country" jsonschema:"Two-letter Adzuna country code, e.g. gb or us"`
	What      string   `json:"what,omitempty" jsonschema:"Job title or keywords"`
	Where     string   `json:"where,omitempty" jsonschema:"Location"`
	Page      int      `json:"page,omitempty" jsonschema:"1-based page number"`
	SalaryMin *float64 `json:"salary_min,omitempty" jsonschema:"Minimum salary"`
	SalaryMax *float64 `json:"salary_max,omitempty" jsonschema:"Maximum salary"`
	JobType   string   `json:"job_type,omitempty" jsonschema:"permanent, contract, temporary, part_time or full_time"`
	SortBy    string   `json:"sort_by,omitempty" jsonschema:"relevance, date or salary"`
}

// JobSummary is one listing as returned to MCP clients
type JobSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company,omitempty"`
	Location    string   `json:"location,omitempty"`
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`
	Created     string   `json:"created,omitempty"`
	Category    string   `json:"category,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
}

// JobSearchResult is the structured output of job_search
type JobSearchResult struct {
	Count int          `json:"count"`
	Page  int          `json:"page"`
	Jobs  []JobSummary `json:"jobs"`
}

// WithJobSearch registers the job_search tool
func WithJobSearch() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Search Adzuna job listings for a country. Returns one page of up to 20 listings with descriptions in Markdown.",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, jobSearch(reg.provider, reg.logger))
	}
}

func jobSearch(provider job.Provider, logger *logging.Logger) sdkmcp.ToolHandlerFor[JobSearchParams, JobSearchResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in JobSearchParams) (*sdkmcp.CallToolResult, JobSearchResult, error) {
		q, err := searchQuery(in)
		if err != nil {
			return nil, JobSearchResult{}, err
		}

		page, err := provider.Search(ctx, q)
		if err != nil {
			return nil, JobSearchResult{}, err
		}

		out := JobSearchResult{Count: page.Total, Page: q.Page, Jobs: make([]JobSummary, 0, len(page.Jobs))}
		for _, j := range page.Jobs {
			out.Jobs = append(out.Jobs, summarize(j, logger))
		}
		return nil, out, nil
	}
}

func searchQuery(in JobSearchParams) (domain.Query, error) {
	req := domain.SearchRequest{
		Keywords: in.What,
		Location: in.Where,
		Country:  strings.ToLower(strings.TrimSpace(in.Country)),
	}
	if !req.HasCountry() {
		return domain.Query{}, errors.New(job.NoCountryMessage)
	}

	for name, v := range map[string]*float64{"salary_min": in.SalaryMin, "salary_max": in.SalaryMax} {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return domain.Query{}, fmt.Errorf("%s must be a non-negative number", name)
		}
	}

	filters := domain.DefaultFilters()
	filters.SalaryMin = in.SalaryMin
	filters.SalaryMax = in.SalaryMax
	if in.JobType != "" {
		if !domain.KnownOption(domain.JobTypes, in.JobType) {
			return domain.Query{}, errors.New("unknown job_type " + in.JobType)
		}
		filters.JobType = in.JobType
	}
	if in.SortBy != "" {
		if !domain.KnownOption(domain.SortOptions, in.SortBy) {
			return domain.Query{}, errors.New("unknown sort_by " + in.SortBy)
		}
		filters.SortBy = in.SortBy
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	return domain.Query{
		Country:  req.Country,
		Keywords: req.Keywords,
		Location: req.Location,
		Page:     page,
		PageSize: domain.PageSize,
		Filters:  filters,
	}, nil
}

func summarize(j domain.JobListing, logger *logging.Logger) JobSummary {
	return JobSummary{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Created:     j.Created,
		Category:    j.Category,
		URL:         j.RedirectURL,
		Description: markdown(j.Description, logger),
	}
}

// markdown converts upstream description HTML; on failure the raw text is kept
func markdown(desc string, logger *logging.Logger) string {
	if strings.TrimSpace(desc) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(desc)
	if err != nil {
		logger.Debug("description markdown conversion failed", "err", err)
		return desc
	}
	return strings.TrimSpace(md)
}
