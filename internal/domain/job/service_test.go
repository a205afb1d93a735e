package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-finder/internal/domain"
)

type mapStore struct {
	mu sync.Mutex
	m  map[string]State
}

func newMapStore() *mapStore {
	return &mapStore{m: map[string]State{}}
}

func (s *mapStore) Load(_ context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[id]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return st, nil
}

func (s *mapStore) Update(_ context.Context, id string, fn func(State, bool) State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[id]
	next := fn(st, ok)
	s.m[id] = next
	return next, nil
}

func (s *mapStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	return ok
}

type fakeProvider struct {
	mu      sync.Mutex
	queries []domain.Query
	search  func(q domain.Query) (domain.ResultPage, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(_ context.Context, q domain.Query) (domain.ResultPage, error) {
	p.mu.Lock()
	p.queries = append(p.queries, q)
	fn := p.search
	p.mu.Unlock()

	if fn == nil {
		return domain.ResultPage{Jobs: listings("1", "2"), Total: 2, Page: q.Page}, nil
	}
	return fn(q)
}

func (p *fakeProvider) Categories(_ context.Context, _ string) ([]domain.Category, error) {
	return []domain.Category{{Tag: "it-jobs", Label: "IT Jobs"}}, nil
}

func (p *fakeProvider) calls() []domain.Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Query(nil), p.queries...)
}

type fakeRecorder struct {
	country string
	count   int
	err     error
}

func (r *fakeRecorder) RecordListings(_ context.Context, country string, jobs []domain.JobListing) error {
	r.country = country
	r.count += len(jobs)
	return r.err
}

type fakeExporter struct {
	n   int
	err error
}

func (e *fakeExporter) Export(_ context.Context, jobs []domain.JobListing) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	e.n = len(jobs)
	return e.n, nil
}

func newCoordinator(t *testing.T, p *fakeProvider, opts ...Option) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(append([]Option{WithProvider(p), WithStore(newMapStore())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewCoordinatorRequiresDeps(t *testing.T) {
	_, err := NewCoordinator(WithStore(newMapStore()))
	assert.Error(t, err)

	_, err = NewCoordinator(WithProvider(&fakeProvider{}))
	assert.Error(t, err)
}

func TestCoordinatorSearch(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	rec := &fakeRecorder{}
	c := newCoordinator(t, p, WithRecorder(rec))

	st, err := c.Search(ctx, "s1", domain.SearchRequest{Keywords: "Developer", Location: "London", Country: "gb"})
	require.NoError(t, err)

	assert.Equal(t, PhaseResults, st.Phase())
	assert.Len(t, st.Jobs, 2)
	assert.Equal(t, 1, st.Page)

	calls := p.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gb", calls[0].Country)
	assert.Equal(t, 1, calls[0].Page)
	assert.Equal(t, domain.PageSize, calls[0].PageSize)

	assert.Equal(t, "gb", rec.country)
	assert.Equal(t, 2, rec.count)

	again, err := c.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st, again)
}

func TestCoordinatorSearchWithoutCountry(t *testing.T) {
	p := &fakeProvider{}
	c := newCoordinator(t, p)

	st, err := c.Search(context.Background(), "s1", domain.SearchRequest{Keywords: "x", Country: domain.NoCountry})
	require.NoError(t, err)

	assert.Equal(t, NoCountryMessage, st.Err)
	assert.Empty(t, p.calls())
}

func TestCoordinatorRepeatsIdenticalQuery(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	c := newCoordinator(t, p)
	req := domain.SearchRequest{Keywords: "go", Country: "gb"}

	_, err := c.Search(ctx, "s1", req)
	require.NoError(t, err)
	_, err = c.Search(ctx, "s1", req)
	require.NoError(t, err)

	calls := p.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
}

func TestCoordinatorSearchFailure(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{search: func(domain.Query) (domain.ResultPage, error) {
		return domain.ResultPage{}, errors.New("invalid_app_id")
	}}
	rec := &fakeRecorder{}
	c := newCoordinator(t, p, WithRecorder(rec))

	st, err := c.Search(ctx, "s1", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)

	assert.Equal(t, "invalid_app_id", st.Err)
	assert.Empty(t, st.Jobs)
	assert.Zero(t, rec.count)
}

func TestCoordinatorRecorderFailureIsIgnored(t *testing.T) {
	c := newCoordinator(t, &fakeProvider{}, WithRecorder(&fakeRecorder{err: errors.New("neo4j down")}))

	st, err := c.Search(context.Background(), "s1", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)
	assert.Empty(t, st.Err)
	assert.Len(t, st.Jobs, 2)
}

func TestCoordinatorChangePageAndFilters(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	c := newCoordinator(t, p)

	_, err := c.ChangePage(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Empty(t, p.calls(), "no search context yet")

	_, err = c.Search(ctx, "s1", domain.SearchRequest{Keywords: "go", Country: "gb"})
	require.NoError(t, err)

	st, err := c.ChangePage(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Page)

	lo := 30000.0
	st, err = c.ChangeFilters(ctx, "s1", domain.FilterSet{SalaryMin: &lo, JobType: "permanent", SortBy: "date"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Page)

	calls := p.calls()
	require.Len(t, calls, 3)
	last := calls[2]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "go", last.Keywords)
	assert.Equal(t, "permanent", last.Filters.JobType)
	require.NotNil(t, last.Filters.SalaryMin)
	assert.Equal(t, 30000.0, *last.Filters.SalaryMin)
}

func TestCoordinatorResetPreservesFilters(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	c := newCoordinator(t, p)

	_, err := c.ChangeFilters(ctx, "s1", domain.FilterSet{JobType: "contract", SortBy: "salary"})
	require.NoError(t, err)
	_, err = c.Search(ctx, "s1", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)

	st, err := c.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, st.Phase())
	assert.Empty(t, st.Jobs)
	assert.Equal(t, "contract", st.Filters.JobType)

	_, err = c.Search(ctx, "s1", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)
	calls := p.calls()
	assert.Equal(t, "contract", calls[len(calls)-1].Filters.JobType)
}

func TestCoordinatorDiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	p := &fakeProvider{search: func(q domain.Query) (domain.ResultPage, error) {
		if q.Keywords == "slow" {
			close(started)
			<-release
			return domain.ResultPage{Jobs: listings("stale"), Total: 1}, nil
		}
		return domain.ResultPage{Jobs: listings("fresh"), Total: 1}, nil
	}}
	c := newCoordinator(t, p)

	done := make(chan State)
	go func() {
		st, err := c.Search(ctx, "s1", domain.SearchRequest{Keywords: "slow", Country: "gb"})
		assert.NoError(t, err)
		done <- st
	}()

	<-started
	fresh, err := c.Search(ctx, "s1", domain.SearchRequest{Keywords: "fast", Country: "gb"})
	require.NoError(t, err)
	require.Len(t, fresh.Jobs, 1)
	assert.Equal(t, "fresh", fresh.Jobs[0].ID)

	close(release)
	late := <-done
	require.Len(t, late.Jobs, 1)
	assert.Equal(t, "fresh", late.Jobs[0].ID)

	final, err := c.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", final.Jobs[0].ID)
	assert.Equal(t, "fast", final.Search.Keywords)
}

// Two coordinators on one store behave like two server instances sharing
// Redis: the later-issued search wins even when the earlier one resolves last
// or first.
func TestCoordinatorsSharingStoreKeepLatestSearch(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()

	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	entered := make(chan string, 2)
	p := &fakeProvider{search: func(q domain.Query) (domain.ResultPage, error) {
		entered <- q.Keywords
		<-gates[q.Keywords]
		return domain.ResultPage{Jobs: listings(q.Keywords), Total: 1}, nil
	}}

	newInstance := func() *Coordinator {
		c, err := NewCoordinator(WithProvider(p), WithStore(store))
		require.NoError(t, err)
		return c
	}
	a, b := newInstance(), newInstance()

	results := make(chan State, 2)
	search := func(c *Coordinator, kw string) {
		st, err := c.Search(ctx, "s1", domain.SearchRequest{Keywords: kw, Country: "gb"})
		assert.NoError(t, err)
		results <- st
	}

	go search(a, "first")
	require.Equal(t, "first", <-entered)
	go search(b, "second")
	require.Equal(t, "second", <-entered)

	// the earlier request resolves first and must not be applied
	close(gates["first"])
	early := <-results
	assert.True(t, early.Loading, "stale response leaves the newer request pending")
	assert.Empty(t, early.Jobs)

	close(gates["second"])
	<-results

	final, err := a.State(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, final.Loading)
	require.Len(t, final.Jobs, 1)
	assert.Equal(t, "second", final.Jobs[0].ID)
	assert.Equal(t, uint64(2), final.Seq)
}

func TestCoordinatorStateDoesNotCreateSession(t *testing.T) {
	store := newMapStore()
	c, err := NewCoordinator(WithProvider(&fakeProvider{}), WithStore(store))
	require.NoError(t, err)

	st, err := c.State(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, NewState(), st)
	assert.False(t, store.has("fresh"))
}

func TestCoordinatorSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &fakeProvider{})

	_, err := c.Search(ctx, "a", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)

	b, err := c.State(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, b.Phase())
}

func TestCoordinatorSelectJob(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, &fakeProvider{})

	_, err := c.Search(ctx, "s1", domain.SearchRequest{Country: "gb"})
	require.NoError(t, err)

	st, err := c.SelectJob(ctx, "s1", "2")
	require.NoError(t, err)
	assert.True(t, st.Detail)
	assert.Equal(t, "2", st.Selected.ID)

	st, err = c.CloseJob(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, st.Detail)
}

func TestCoordinatorExport(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		c := newCoordinator(t, &fakeProvider{})
		assert.False(t, c.CanExport())

		_, err := c.Export(ctx, "s1")
		require.NoError(t, err)

		_, notice, err := c.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Export is not configured.", notice)
	})

	t.Run("exports current page", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newCoordinator(t, &fakeProvider{}, WithExporter(exp))

		_, err := c.Search(ctx, "s1", domain.SearchRequest{Country: "gb"})
		require.NoError(t, err)
		_, err = c.Export(ctx, "s1")
		require.NoError(t, err)

		assert.Equal(t, 2, exp.n)
		_, notice, err := c.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Exported 2 job(s).", notice)

		_, notice, err = c.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, notice)
	})

	t.Run("failure", func(t *testing.T) {
		c := newCoordinator(t, &fakeProvider{}, WithExporter(&fakeExporter{err: errors.New("quota")}))

		_, err := c.Export(ctx, "s1")
		require.NoError(t, err)
		_, notice, err := c.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Export failed.", notice)
	})
}

func TestCoordinatorRequiresSessionID(t *testing.T) {
	c := newCoordinator(t, &fakeProvider{})
	_, err := c.State(context.Background(), "")
	assert.Error(t, err)
}
