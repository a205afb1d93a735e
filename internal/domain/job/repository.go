package job

import (
	"context"
	"errors"

	"github.com/honeycarbs/job-finder/internal/domain"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired ids
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one State per browser session. Entries expire; nothing
// survives past the store's TTL.
type SessionStore interface {
	Load(ctx context.Context, id string) (State, error)
	// Update replaces the state under id with fn's result. No other writer
	// can commit between the read handed to fn and the write; fn may run
	// more than once and must not have side effects beyond its result.
	// found is false when id is unknown or expired.
	Update(ctx context.Context, id string, fn func(st State, found bool) State) (State, error)
}

// Recorder receives every successfully fetched page. It is write-only:
// nothing recorded is ever read back to answer a search.
type Recorder interface {
	RecordListings(ctx context.Context, country string, jobs []domain.JobListing) error
}

// Exporter writes listings to an external destination on user request
type Exporter interface {
	Export(ctx context.Context, jobs []domain.JobListing) (int, error)
}
