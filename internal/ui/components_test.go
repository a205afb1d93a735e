package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
)

func TestSearchForm(t *testing.T) {
	f := NewSearchForm(domain.SearchRequest{}, false)
	assert.Equal(t, domain.NoCountry, f.Draft.Country)
	assert.Equal(t, "Search Jobs", f.SubmitLabel())

	f = f.Fill("Developer", "London", "gb")
	assert.Equal(t, domain.SearchRequest{Keywords: "Developer", Location: "London", Country: "gb"}, f.Submit())

	f = f.Fill("x", "", domain.NoCountry)
	assert.Equal(t, domain.NoCountry, f.Submit().Country, "submit does not validate")

	assert.Equal(t, "Searching...", NewSearchForm(domain.SearchRequest{}, true).SubmitLabel())
}

func TestFiltersPanelEdit(t *testing.T) {
	p := NewFiltersPanel(domain.DefaultFilters(), true)

	f, err := p.Edit(FieldSalaryMin, "30000")
	require.NoError(t, err)
	require.NotNil(t, f.SalaryMin)
	assert.Equal(t, 30000.0, *f.SalaryMin)
	assert.Equal(t, domain.DefaultSortBy, f.SortBy, "other fields are carried")

	f, err = p.Edit(FieldJobType, "permanent")
	require.NoError(t, err)
	assert.Equal(t, "permanent", f.JobType)
	require.NotNil(t, f.SalaryMin, "earlier edits are kept")

	f, err = p.Edit(FieldSalaryMin, "")
	require.NoError(t, err)
	assert.Nil(t, f.SalaryMin)

	f, err = p.Edit(FieldSortBy, "date")
	require.NoError(t, err)
	assert.Equal(t, "date", f.SortBy)
	assert.Equal(t, f, p.Filters())
}

func TestFiltersPanelEditRejects(t *testing.T) {
	cases := []struct {
		field, value string
		want         error
	}{
		{FieldSalaryMin, "-5", ErrInvalidSalary},
		{FieldSalaryMax, "lots", ErrInvalidSalary},
		{FieldSalaryMax, "NaN", ErrInvalidSalary},
		{FieldJobType, "freelance", ErrUnknownOption},
		{FieldSortBy, "random", ErrUnknownOption},
		{"colour", "red", ErrUnknownField},
	}

	for _, tc := range cases {
		t.Run(tc.field+"="+tc.value, func(t *testing.T) {
			p := NewFiltersPanel(domain.DefaultFilters(), true)
			before := p.Filters()

			_, err := p.Edit(tc.field, tc.value)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, before, p.Filters())
		})
	}
}

func TestFiltersPanelClear(t *testing.T) {
	p := NewFiltersPanel(domain.FilterSet{SalaryMax: ptr(90000), JobType: "contract", SortBy: "salary"}, false)
	assert.Equal(t, "90000", p.SalaryMaxValue())
	assert.Empty(t, p.SalaryMinValue())

	assert.Equal(t, domain.DefaultFilters(), p.Clear())
	assert.False(t, p.Visible)
}

func TestFiltersPanelCopiesInput(t *testing.T) {
	lo := 100.0
	f := domain.FilterSet{SalaryMin: &lo}
	p := NewFiltersPanel(f, true)

	_, err := p.Edit(FieldSalaryMin, "200")
	require.NoError(t, err)
	assert.Equal(t, 100.0, lo)
}

func resolved(jobs []domain.JobListing, total int) job.State {
	st, _ := job.NewState().Submit(domain.SearchRequest{Country: "gb"})
	st, _ = st.Resolve(st.Seq, domain.ResultPage{Jobs: jobs, Total: total}, nil)
	return st
}

func TestResultsViewPrecedence(t *testing.T) {
	t.Run("idle is hidden", func(t *testing.T) {
		assert.Equal(t, ResultsHidden, NewResultsView(job.NewState()).Mode)
	})

	t.Run("error wins", func(t *testing.T) {
		st, _ := job.NewState().Submit(domain.SearchRequest{Country: domain.NoCountry})
		v := NewResultsView(st)
		assert.Equal(t, ResultsError, v.Mode)
		assert.Equal(t, job.NoCountryMessage, v.Error)
	})

	t.Run("loading", func(t *testing.T) {
		st, _ := job.NewState().Submit(domain.SearchRequest{Country: "gb"})
		assert.Equal(t, ResultsLoading, NewResultsView(st).Mode)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, ResultsEmpty, NewResultsView(resolved(nil, 0)).Mode)
	})
}

func TestResultsViewList(t *testing.T) {
	jobs := []domain.JobListing{
		{ID: "1", Title: "Go Developer", Company: "Acme", SalaryMin: ptr(40000), Created: "2024-01-15T10:00:00Z", Category: "IT Jobs"},
		{Title: "No id"},
	}
	v := NewResultsView(resolved(jobs, 1234))

	assert.Equal(t, ResultsList, v.Mode)
	assert.Equal(t, "Found 1,234 jobs", v.Header)
	require.Len(t, v.Cards, 2)
	assert.Equal(t, "1", v.Cards[0].Key)
	assert.Equal(t, "£40,000+", v.Cards[0].Salary)
	assert.Equal(t, "15 Jan 2024", v.Cards[0].Posted)
	assert.Equal(t, "idx-1", v.Cards[1].Key)
	assert.Equal(t, NoDescription, v.Cards[1].Description)

	assert.True(t, v.PrevDisabled)
	assert.True(t, v.NextDisabled, "fewer than a full page")
	assert.Equal(t, 2, v.NextPage)
}

func TestResultsViewFullPageEnablesNext(t *testing.T) {
	jobs := make([]domain.JobListing, domain.PageSize)
	st := resolved(jobs, 100)
	st, _ = st.TurnPage(2)
	st, _ = st.Resolve(st.Seq, domain.ResultPage{Jobs: jobs, Total: 100}, nil)

	v := NewResultsView(st)
	assert.False(t, v.NextDisabled)
	assert.False(t, v.PrevDisabled)
	assert.Equal(t, 1, v.PrevPage)
}

func TestDetailView(t *testing.T) {
	st := resolved([]domain.JobListing{{ID: "1", Title: "Nurse", Created: "2024-01-15T10:00:00Z", Description: "<p>Care</p>"}}, 1)

	_, ok := NewDetailView(st)
	assert.False(t, ok, "closed overlay renders nothing")

	st, _ = st.Select("1")
	d, ok := NewDetailView(st)
	require.True(t, ok)
	assert.Equal(t, "15 January 2024", d.Posted)
	assert.Equal(t, NotSpecified, d.Category)
	assert.Equal(t, "Apply Now on Company Site", d.ApplyLabel)
	assert.Equal(t, NoSalary, d.Salary)
	assert.EqualValues(t, "<p>Care</p>", d.Description)
}

func TestPageView(t *testing.T) {
	st := resolved([]domain.JobListing{{ID: "1", Company: "Acme"}}, 1)
	st, _ = st.Select("1")

	v := NewPageView(st, "done", true)
	assert.True(t, v.HasDetail)
	assert.Equal(t, "Apply Now on Acme", v.Detail.ApplyLabel)
	assert.Equal(t, "done", v.Notice)
	assert.True(t, v.CanExport)
	assert.False(t, NewPageView(job.NewState(), "", true).CanExport)
}
