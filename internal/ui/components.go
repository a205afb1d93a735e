package ui

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
)

var (
	ErrInvalidSalary = errors.New("salary must be a non-negative number")
	ErrUnknownField  = errors.New("unknown filter field")
	ErrUnknownOption = errors.New("unknown filter option")
)

// Filter field names as posted by the filters form
const (
	FieldSalaryMin = "salary_min"
	FieldSalaryMax = "salary_max"
	FieldJobType   = "job_type"
	FieldSortBy    = "sort_by"
)

// SearchForm holds the keyword, location and country inputs
type SearchForm struct {
	Draft   domain.SearchRequest
	Loading bool
}

// NewSearchForm seeds the form from the last submitted draft
func NewSearchForm(draft domain.SearchRequest, loading bool) SearchForm {
	if draft.Country == "" {
		draft.Country = domain.NoCountry
	}
	return SearchForm{Draft: draft, Loading: loading}
}

// Fill sets the three inputs
func (f SearchForm) Fill(what, where, country string) SearchForm {
	f.Draft = domain.SearchRequest{Keywords: what, Location: where, Country: country}
	return f
}

// Submit emits the current inputs unvalidated
func (f SearchForm) Submit() domain.SearchRequest {
	return f.Draft
}

func (f SearchForm) SubmitLabel() string {
	if f.Loading {
		return "Searching..."
	}
	return "Search Jobs"
}

func (f SearchForm) Countries() []domain.Option {
	return domain.Countries
}

// FiltersPanel edits a local copy of the filter set, seeded once from the
// coordinator's value.
type FiltersPanel struct {
	local   domain.FilterSet
	Visible bool
}

// NewFiltersPanel copies f into the panel
func NewFiltersPanel(f domain.FilterSet, visible bool) FiltersPanel {
	local := f
	if f.SalaryMin != nil {
		v := *f.SalaryMin
		local.SalaryMin = &v
	}
	if f.SalaryMax != nil {
		v := *f.SalaryMax
		local.SalaryMax = &v
	}
	if local.SortBy == "" {
		local.SortBy = domain.DefaultSortBy
	}
	return FiltersPanel{local: local, Visible: visible}
}

// Filters is the panel's current value
func (p FiltersPanel) Filters() domain.FilterSet {
	return p.local
}

// Edit updates one field and returns the full updated set. Empty salary
// input clears that bound.
func (p *FiltersPanel) Edit(field, value string) (domain.FilterSet, error) {
	next := p.local
	value = strings.TrimSpace(value)

	switch field {
	case FieldSalaryMin, FieldSalaryMax:
		amount, err := parseSalary(value)
		if err != nil {
			return p.local, err
		}
		if field == FieldSalaryMin {
			next.SalaryMin = amount
		} else {
			next.SalaryMax = amount
		}
	case FieldJobType:
		if !domain.KnownOption(domain.JobTypes, value) {
			return p.local, fmt.Errorf("%w: job type %q", ErrUnknownOption, value)
		}
		next.JobType = value
	case FieldSortBy:
		if !domain.KnownOption(domain.SortOptions, value) {
			return p.local, fmt.Errorf("%w: sort %q", ErrUnknownOption, value)
		}
		next.SortBy = value
	default:
		return p.local, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	p.local = next
	return next, nil
}

// Clear resets every field and returns the defaults
func (p *FiltersPanel) Clear() domain.FilterSet {
	p.local = domain.DefaultFilters()
	return p.local
}

func (p FiltersPanel) SalaryMinValue() string { return salaryInput(p.local.SalaryMin) }
func (p FiltersPanel) SalaryMaxValue() string { return salaryInput(p.local.SalaryMax) }
func (p FiltersPanel) JobTypes() []domain.Option {
	return domain.JobTypes
}
func (p FiltersPanel) SortOptions() []domain.Option {
	return domain.SortOptions
}

func parseSalary(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSalary, s)
	}
	return &v, nil
}

func salaryInput(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ResultsMode selects what the results region shows
type ResultsMode string

const (
	ResultsHidden  ResultsMode = ""
	ResultsError   ResultsMode = "error"
	ResultsLoading ResultsMode = "loading"
	ResultsEmpty   ResultsMode = "empty"
	ResultsList    ResultsMode = "list"
)

// Card is one rendered listing
type Card struct {
	Key         string
	Title       string
	Company     string
	Location    string
	Salary      string
	Posted      string
	Description string
	Category    string
	ApplyURL    string
}

// ResultsView is the results region derived from a snapshot
type ResultsView struct {
	Mode         ResultsMode
	Error        string
	Header       string
	Cards        []Card
	Page         int
	PrevPage     int
	NextPage     int
	PrevDisabled bool
	NextDisabled bool
}

// NewResultsView applies the precedence error, loading, empty, list. The
// region stays hidden until a search has been made or a message exists.
func NewResultsView(st job.State) ResultsView {
	v := ResultsView{
		Page:         st.Page,
		PrevPage:     st.Page - 1,
		NextPage:     st.Page + 1,
		PrevDisabled: st.Page <= 1,
		NextDisabled: len(st.Jobs) < domain.PageSize,
	}

	switch {
	case st.Err != "":
		v.Mode = ResultsError
		v.Error = st.Err
	case st.Loading:
		v.Mode = ResultsLoading
	case st.Search == nil:
		v.Mode = ResultsHidden
	case len(st.Jobs) == 0:
		v.Mode = ResultsEmpty
	default:
		v.Mode = ResultsList
		v.Header = "Found " + FormatCount(st.Total) + " jobs"
		v.Cards = make([]Card, 0, len(st.Jobs))
		for i, j := range st.Jobs {
			v.Cards = append(v.Cards, Card{
				Key:         job.ListingKey(j, i),
				Title:       j.Title,
				Company:     j.Company,
				Location:    j.Location,
				Salary:      FormatSalary(j.SalaryMin, j.SalaryMax),
				Posted:      ShortDate(j.Created),
				Description: Truncate(j.Description, DescriptionLimit),
				Category:    j.Category,
				ApplyURL:    j.RedirectURL,
			})
		}
	}
	return v
}

// DetailView is the overlay for the selected listing
type DetailView struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Posted      string
	Category    string
	Description template.HTML
	ApplyURL    string
	ApplyLabel  string
}

// NewDetailView renders only when the overlay is open with a selection
func NewDetailView(st job.State) (DetailView, bool) {
	if !st.Detail || st.Selected == nil {
		return DetailView{}, false
	}
	j := st.Selected

	category := j.Category
	if category == "" {
		category = NotSpecified
	}
	company := j.Company
	if company == "" {
		company = DefaultCompanySite
	}

	return DetailView{
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Salary:      FormatSalary(j.SalaryMin, j.SalaryMax),
		Posted:      LongDate(j.Created),
		Category:    category,
		Description: Sanitize(j.Description),
		ApplyURL:    j.RedirectURL,
		ApplyLabel:  "Apply Now on " + company,
	}, true
}

// PageView is everything the index template needs
type PageView struct {
	Form      SearchForm
	Filters   FiltersPanel
	Results   ResultsView
	Detail    DetailView
	HasDetail bool
	Notice    string
	CanExport bool
}

// NewPageView assembles the page from one snapshot
func NewPageView(st job.State, notice string, canExport bool) PageView {
	detail, ok := NewDetailView(st)
	return PageView{
		Form:      NewSearchForm(st.Draft, st.Loading),
		Filters:   NewFiltersPanel(st.Filters, st.FiltersOpen),
		Results:   NewResultsView(st),
		Detail:    detail,
		HasDetail: ok,
		Notice:    notice,
		CanExport: canExport && len(st.Jobs) > 0,
	}
}
