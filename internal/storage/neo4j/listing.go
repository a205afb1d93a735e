package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/job-finder/internal/domain"
	jobdomain "github.com/honeycarbs/job-finder/internal/domain/job"
)

// Ensure ListingRecorder implements job.Recorder
var _ jobdomain.Recorder = (*ListingRecorder)(nil)

// writer runs one Cypher statement in a write transaction
type writer interface {
	Write(ctx context.Context, cypher string, params map[string]any) error
}

// ListingRecorder merges every fetched listing into a graph of
// Job, Company and Category nodes. Nothing is read back.
type ListingRecorder struct {
	client writer
	source string
	now    func() time.Time
}

// NewListingRecorder creates a ListingRecorder on a Neo4j client
func NewListingRecorder(client writer) (*ListingRecorder, error) {
	if client == nil {
		return nil, fmt.Errorf("neo4j recorder: client is required")
	}
	return &ListingRecorder{client: client, source: "adzuna", now: time.Now}, nil
}

const recordListingsQuery = `
	UNWIND $jobs AS job
	MERGE (j:Job {source: $source, externalId: job.externalId})
	SET j.title = job.title,
	    j.location = job.location,
	    j.country = $country,
	    j.url = job.url,
	    j.created = job.created,
	    j.salaryMin = job.salaryMin,
	    j.salaryMax = job.salaryMax,
	    j.contractType = job.contractType,
	    j.contractTime = job.contractTime,
	    j.fetchedAt = datetime({epochMillis: $fetchedAt})
	WITH j, job
	FOREACH (_ IN CASE WHEN job.company.id = '' THEN [] ELSE [1] END |
		MERGE (c:Company {id: job.company.id})
		SET c.name = job.company.name
		MERGE (j)-[:POSTED_BY]->(c)
	)
	FOREACH (_ IN CASE WHEN job.category = '' THEN [] ELSE [1] END |
		MERGE (cat:Category {label: job.category})
		MERGE (j)-[:IN_CATEGORY]->(cat)
	)
`

// RecordListings upserts jobs fetched for country
func (r *ListingRecorder) RecordListings(ctx context.Context, country string, jobs []domain.JobListing) error {
	params := listingParams(jobs)
	if len(params) == 0 {
		return nil
	}

	err := r.client.Write(ctx, recordListingsQuery, map[string]any{
		"jobs":      params,
		"source":    r.source,
		"country":   country,
		"fetchedAt": r.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("neo4j: record listings: %w", err)
	}
	return nil
}

// listingParams converts listings to driver parameters. Listings without an
// upstream id cannot be merged and are skipped.
func listingParams(jobs []domain.JobListing) []map[string]any {
	out := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			continue
		}
		out = append(out, map[string]any{
			"externalId":   job.ID,
			"title":        job.Title,
			"location":     job.Location,
			"url":          job.RedirectURL,
			"created":      job.Created,
			"salaryMin":    optional(job.SalaryMin),
			"salaryMax":    optional(job.SalaryMax),
			"contractType": job.ContractType,
			"contractTime": job.ContractTime,
			"category":     job.Category,
			"company":      map[string]any{"id": slugify(job.Company), "name": job.Company},
		})
	}
	return out
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
