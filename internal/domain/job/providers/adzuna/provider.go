package adzuna

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-finder/internal/domain"
	jobdomain "github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	Search(ctx context.Context, country, keywords, location string, page, pageSize int, filters adzuna.Filters) (*adzuna.SearchResult, error)
	Categories(ctx context.Context, country string) ([]adzuna.Category, error)
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "adzuna"
}

// Search queries Adzuna and returns normalized listings
func (p *Provider) Search(ctx context.Context, q domain.Query) (domain.ResultPage, error) {
	if p == nil || p.client == nil {
		return domain.ResultPage{}, &adzuna.RequestError{Message: adzuna.SearchFailedMessage}
	}

	filters := adzuna.Filters{
		SalaryMin: q.Filters.SalaryMin,
		SalaryMax: q.Filters.SalaryMax,
		Contract:  q.Filters.JobType,
		SortBy:    q.Filters.SortBy,
	}

	res, err := p.client.Search(ctx, q.Country, q.Keywords, q.Location, q.Page, q.PageSize, filters)
	if err != nil {
		return domain.ResultPage{}, err
	}

	out := make([]domain.JobListing, 0, len(res.Results))
	for _, j := range res.Results {
		out = append(out, toListing(j))
	}

	return domain.ResultPage{Jobs: out, Total: res.Count, Page: q.Page}, nil
}

// Categories lists Adzuna categories for a country
func (p *Provider) Categories(ctx context.Context, country string) ([]domain.Category, error) {
	if p == nil || p.client == nil {
		return nil, &adzuna.RequestError{Message: adzuna.CategoriesFailedMessage}
	}

	cats, err := p.client.Categories(ctx, country)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.Category{Tag: c.Tag, Label: c.Label})
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

func toListing(j adzuna.Posting) domain.JobListing {
	return domain.JobListing{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company.DisplayName,
		Location:     j.Location.DisplayName,
		SalaryMin:    positive(j.SalaryMin),
		SalaryMax:    positive(j.SalaryMax),
		Created:      j.Created,
		Category:     j.Category.Label,
		Description:  j.Description,
		RedirectURL:  j.RedirectURL,
		ContractType: j.ContractType,
		ContractTime: j.ContractTime,
	}
}

// positive treats zero salaries as absent; Adzuna uses both null and 0
func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}
