package job

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

const lockStripes = 64

// Option configures the Coordinator
type Option func(*config)

type config struct {
	provider Provider
	store    SessionStore
	recorder Recorder
	exporter Exporter
	logger   *logging.Logger
	pageSize int
}

// WithProvider sets the job provider
func WithProvider(p Provider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithStore sets the session store
func WithStore(s SessionStore) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithRecorder sets an optional listing recorder
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithExporter sets an optional exporter
func WithExporter(e Exporter) Option {
	return func(c *config) {
		c.exporter = e
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Coordinator owns every session's cross-component state and sequences
// provider calls in response to user actions.
type Coordinator struct {
	provider Provider
	store    SessionStore
	recorder Recorder
	exporter Exporter
	logger   *logging.Logger
	pageSize int

	locks [lockStripes]sync.Mutex
}

// NewCoordinator builds a Coordinator from options
func NewCoordinator(opts ...Option) (*Coordinator, error) {
	cfg := &config{pageSize: domain.PageSize}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.provider == nil {
		return nil, fmt.Errorf("job.Coordinator: provider is required")
	}
	if cfg.store == nil {
		return nil, fmt.Errorf("job.Coordinator: session store is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}

	return &Coordinator{
		provider: cfg.provider,
		store:    cfg.store,
		recorder: cfg.recorder,
		exporter: cfg.exporter,
		logger:   cfg.logger,
		pageSize: cfg.pageSize,
	}, nil
}

// NewCoordinatorWithDeps creates a Coordinator with direct dependencies (Wire-compatible).
// recorder and exporter may be nil.
func NewCoordinatorWithDeps(
	provider Provider,
	store SessionStore,
	recorder Recorder,
	exporter Exporter,
	logger *logging.Logger,
) (*Coordinator, error) {
	return NewCoordinator(
		WithProvider(provider),
		WithStore(store),
		WithRecorder(recorder),
		WithExporter(exporter),
		WithLogger(logger),
	)
}

// CanExport reports whether an exporter is configured
func (c *Coordinator) CanExport() bool {
	return c.exporter != nil
}

// State returns the current snapshot for sid without modifying it. An
// unknown session reads as a fresh one.
func (c *Coordinator) State(ctx context.Context, sid string) (State, error) {
	if sid == "" {
		return State{}, fmt.Errorf("job.Coordinator: session id is required")
	}

	st, err := c.store.Load(ctx, sid)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return NewState(), nil
	case err != nil:
		return State{}, fmt.Errorf("load session: %w", err)
	}
	return st, nil
}

// Consume returns the snapshot and clears its one-shot notice
func (c *Coordinator) Consume(ctx context.Context, sid string) (State, string, error) {
	var notice string
	st, err := c.update(ctx, sid, func(s State) State {
		next, msg := s.TakeNotice()
		notice = msg
		return next
	})
	return st, notice, err
}

// Search submits a new search at page 1
func (c *Coordinator) Search(ctx context.Context, sid string, req domain.SearchRequest) (State, error) {
	return c.run(ctx, sid, func(s State) (State, bool) {
		return s.Submit(req)
	})
}

// ChangePage loads page n of the current search
func (c *Coordinator) ChangePage(ctx context.Context, sid string, n int) (State, error) {
	return c.run(ctx, sid, func(s State) (State, bool) {
		return s.TurnPage(n)
	})
}

// ChangeFilters stores f and re-runs the current search from page 1
func (c *Coordinator) ChangeFilters(ctx context.Context, sid string, f domain.FilterSet) (State, error) {
	return c.run(ctx, sid, func(s State) (State, bool) {
		return s.ApplyFilters(f)
	})
}

// Reset discards the search context and results; filters persist
func (c *Coordinator) Reset(ctx context.Context, sid string) (State, error) {
	return c.update(ctx, sid, State.Reset)
}

// ToggleFilters flips the filters panel
func (c *Coordinator) ToggleFilters(ctx context.Context, sid string) (State, error) {
	return c.update(ctx, sid, State.ToggleFilters)
}

// SelectJob opens the detail overlay for a job on the current page
func (c *Coordinator) SelectJob(ctx context.Context, sid, jobID string) (State, error) {
	var found bool
	st, err := c.update(ctx, sid, func(s State) State {
		next, ok := s.Select(jobID)
		found = ok
		return next
	})
	if err == nil && !found {
		c.logger.Debug("select ignored: job not on current page", "session", sid, "job_id", jobID)
	}
	return st, err
}

// CloseJob hides the detail overlay
func (c *Coordinator) CloseJob(ctx context.Context, sid string) (State, error) {
	return c.update(ctx, sid, State.CloseDetail)
}

// Export hands the current page to the exporter and leaves a notice
func (c *Coordinator) Export(ctx context.Context, sid string) (State, error) {
	st, err := c.State(ctx, sid)
	if err != nil {
		return st, err
	}

	msg := "Export is not configured."
	if c.exporter != nil {
		switch n, xerr := c.exporter.Export(ctx, st.Jobs); {
		case xerr != nil:
			c.logger.Warn("export failed", "session", sid, "err", xerr)
			msg = "Export failed."
		case n == 0:
			msg = "Nothing to export."
		default:
			msg = fmt.Sprintf("Exported %d job(s).", n)
		}
	}

	return c.Notify(ctx, sid, msg)
}

// Notify leaves a one-shot message for the next render
func (c *Coordinator) Notify(ctx context.Context, sid, msg string) (State, error) {
	return c.update(ctx, sid, func(s State) State { return s.WithNotice(msg) })
}

// Categories passes through to the provider
func (c *Coordinator) Categories(ctx context.Context, country string) ([]domain.Category, error) {
	return c.provider.Categories(ctx, country)
}

// run applies begin under the session lock, performs the provider call
// outside it, then resolves. A newer request issued meanwhile wins.
func (c *Coordinator) run(ctx context.Context, sid string, begin func(State) (State, bool)) (State, error) {
	var (
		started bool
		seq     uint64
		q       domain.Query
	)

	st, err := c.update(ctx, sid, func(s State) State {
		next, ok := begin(s)
		started = ok
		if ok {
			seq = next.Seq
			q = next.Query(c.pageSize)
		}
		return next
	})
	if err != nil || !started {
		return st, err
	}

	log := c.logger.With("session", sid, "seq", seq, "country", q.Country, "page", q.Page)
	log.Debug("search started")

	page, serr := c.provider.Search(ctx, q)
	if serr != nil {
		log.Warn("search failed", "err", serr)
	} else {
		c.record(ctx, q.Country, page.Jobs)
	}

	var (
		applied bool
		latest  uint64
	)
	st, err = c.update(ctx, sid, func(s State) State {
		next, ok := s.Resolve(seq, page, serr)
		applied, latest = ok, s.Seq
		return next
	})
	if err == nil && !applied {
		log.Debug("discarding stale response", "latest_seq", latest)
	}
	return st, err
}

func (c *Coordinator) record(ctx context.Context, country string, jobs []domain.JobListing) {
	if c.recorder == nil || len(jobs) == 0 {
		return
	}
	if err := c.recorder.RecordListings(ctx, country, jobs); err != nil {
		c.logger.Warn("failed to record listings", "err", err, "count", len(jobs))
	}
}

// update runs fn against the stored snapshot. The striped lock keeps
// in-process callers off each other; the store's Update guards against
// other instances sharing it.
func (c *Coordinator) update(ctx context.Context, sid string, fn func(State) State) (State, error) {
	if sid == "" {
		return State{}, fmt.Errorf("job.Coordinator: session id is required")
	}

	mu := c.lock(sid)
	mu.Lock()
	defer mu.Unlock()

	next, err := c.store.Update(ctx, sid, func(st State, found bool) State {
		if !found {
			st = NewState()
		}
		return fn(st)
	})
	if err != nil {
		return State{}, fmt.Errorf("update session: %w", err)
	}
	return next, nil
}

func (c *Coordinator) lock(sid string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return &c.locks[h.Sum32()%lockStripes]
}
