package job

import (
	"slices"
	"strconv"

	"github.com/honeycarbs/job-finder/internal/domain"
)

// NoCountryMessage is shown when a search is submitted without a country
const NoCountryMessage = "Please select a country to search for jobs."

// Phase is the coordinator's position in the session lifecycle:
//
//	Idle ──submit──► Searching ──► Results
//	                     ▲    └──► Errored
//	                     └── page / filter change from Results or Errored
//
// Reset returns any phase to Idle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhaseResults   Phase = "results"
	PhaseErrored   Phase = "errored"
)

// State is one snapshot of a browser session. Transitions never mutate the
// receiver; each returns the next snapshot.
type State struct {
	Search   *domain.SearchRequest `json:"search,omitempty"`
	Filters  domain.FilterSet      `json:"filters"`
	Jobs     []domain.JobListing   `json:"jobs"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	Pending  int                   `json:"pending,omitempty"`
	Loading  bool                  `json:"loading"`
	Err      string                `json:"error,omitempty"`
	Selected *domain.JobListing    `json:"selected,omitempty"`
	Detail   bool                  `json:"detail_open"`
	Seq      uint64                `json:"seq"`

	// component-local state the server has to re-render
	Draft       domain.SearchRequest `json:"draft"`
	FiltersOpen bool                 `json:"filters_open"`
	Notice      string               `json:"notice,omitempty"`
}

// NewState is the session state at startup
func NewState() State {
	return State{
		Filters: domain.DefaultFilters(),
		Jobs:    []domain.JobListing{},
		Page:    1,
		Draft:   domain.EmptySearchRequest(),
	}
}

// Phase derives the lifecycle position from the snapshot
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseSearching
	case s.Err != "":
		return PhaseErrored
	case s.Search != nil:
		return PhaseResults
	default:
		return PhaseIdle
	}
}

func (s State) clone() State {
	next := s
	next.Jobs = slices.Clone(s.Jobs)
	if s.Search != nil {
		req := *s.Search
		next.Search = &req
	}
	if s.Selected != nil {
		sel := *s.Selected
		next.Selected = &sel
	}
	next.Filters = cloneFilters(s.Filters)
	return next
}

func cloneFilters(f domain.FilterSet) domain.FilterSet {
	out := f
	if f.SalaryMin != nil {
		v := *f.SalaryMin
		out.SalaryMin = &v
	}
	if f.SalaryMax != nil {
		v := *f.SalaryMax
		out.SalaryMax = &v
	}
	return out
}

// Submit applies a form submission. A missing country sets the validation
// message and nothing else; ok is false and no request may be issued.
func (s State) Submit(req domain.SearchRequest) (next State, ok bool) {
	next = s.clone()
	next.Draft = req
	if !req.HasCountry() {
		next.Err = NoCountryMessage
		return next, false
	}

	next.Search = &req
	next.Page = 1
	return next.begin(1), true
}

// TurnPage starts loading page n of the current search. It is a no-op
// without a search context or for n < 1.
func (s State) TurnPage(n int) (next State, ok bool) {
	if s.Search == nil || n < 1 {
		return s, false
	}
	return s.clone().begin(n), true
}

// ApplyFilters stores f and, when a search context exists, restarts the
// search at page 1.
func (s State) ApplyFilters(f domain.FilterSet) (next State, ok bool) {
	next = s.clone()
	next.Filters = cloneFilters(f)
	if next.Search == nil {
		return next, false
	}
	next.Page = 1
	return next.begin(1), true
}

func (s State) begin(page int) State {
	s.Loading = true
	s.Err = ""
	s.Pending = page
	s.Seq++
	return s
}

// Query is the upstream request for the pending page
func (s State) Query(pageSize int) domain.Query {
	q := domain.Query{
		Page:     s.Pending,
		PageSize: pageSize,
		Filters:  cloneFilters(s.Filters),
	}
	if q.Page < 1 {
		q.Page = s.Page
	}
	if s.Search != nil {
		q.Country = s.Search.Country
		q.Keywords = s.Search.Keywords
		q.Location = s.Search.Location
	}
	return q
}

// Resolve applies the outcome of request seq. Responses to anything but the
// latest request are discarded and applied is false.
func (s State) Resolve(seq uint64, page domain.ResultPage, err error) (next State, applied bool) {
	if seq != s.Seq || !s.Loading {
		return s, false
	}

	next = s.clone()
	next.Loading = false

	if err != nil {
		next.Err = err.Error()
		next.Jobs = []domain.JobListing{}
		next.Total = 0
		next.Pending = 0
		return next, true
	}

	next.Err = ""
	next.Jobs = slices.Clone(page.Jobs)
	if next.Jobs == nil {
		next.Jobs = []domain.JobListing{}
	}
	next.Total = page.Total
	next.Page = next.Pending
	next.Pending = 0
	return next, true
}

// Reset returns to Idle. Filters survive; the sequence number moves on so
// that an in-flight response cannot repopulate the session.
func (s State) Reset() State {
	next := s.clone()
	next.Search = nil
	next.Jobs = []domain.JobListing{}
	next.Total = 0
	next.Err = ""
	next.Page = 1
	next.Pending = 0
	next.Loading = false
	next.Draft = domain.EmptySearchRequest()
	next.Seq++
	return next
}

// ToggleFilters flips the filters panel visibility
func (s State) ToggleFilters() State {
	next := s.clone()
	next.FiltersOpen = !next.FiltersOpen
	return next
}

// Select opens the detail overlay for one of the current jobs
func (s State) Select(jobID string) (State, bool) {
	for i := range s.Jobs {
		if ListingKey(s.Jobs[i], i) == jobID {
			next := s.clone()
			job := s.Jobs[i]
			next.Selected = &job
			next.Detail = true
			return next, true
		}
	}
	return s, false
}

// CloseDetail hides the overlay and forgets the selection
func (s State) CloseDetail() State {
	next := s.clone()
	next.Selected = nil
	next.Detail = false
	return next
}

// WithNotice attaches a one-shot message; TakeNotice consumes it
func (s State) WithNotice(msg string) State {
	next := s.clone()
	next.Notice = msg
	return next
}

func (s State) TakeNotice() (State, string) {
	if s.Notice == "" {
		return s, ""
	}
	next := s.clone()
	next.Notice = ""
	return next, s.Notice
}

// ListingKey identifies a job within the current page; listings without an
// upstream id fall back to their position.
func ListingKey(job domain.JobListing, index int) string {
	if job.ID != "" {
		return job.ID
	}
	return "idx-" + strconv.Itoa(index)
}
