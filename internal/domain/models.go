package domain

// NoCountry is the sentinel country code meaning "nothing chosen yet".
// It gates searches and is never sent upstream.
const NoCountry = "00"

// PageSize is the fixed number of results requested per page
const PageSize = 20

// DefaultSortBy is the sort order Adzuna applies when sort_by is absent
const DefaultSortBy = "relevance"

// SearchRequest is what the search form emits on submit
type SearchRequest struct {
	Keywords string `json:"what"`
	Location string `json:"where"`
	Country  string `json:"country"`
}

// EmptySearchRequest returns the form defaults
func EmptySearchRequest() SearchRequest {
	return SearchRequest{Country: NoCountry}
}

// HasCountry reports whether an actual country was chosen
func (r SearchRequest) HasCountry() bool {
	return r.Country != "" && r.Country != NoCountry
}

// FilterSet holds the optional refinements re-sent with every search
type FilterSet struct {
	SalaryMin *float64 `json:"salary_min,omitempty"`
	SalaryMax *float64 `json:"salary_max,omitempty"`
	JobType   string   `json:"job_type"`
	SortBy    string   `json:"sort_by"`
}

// DefaultFilters returns the cleared filter set
func DefaultFilters() FilterSet {
	return FilterSet{SortBy: DefaultSortBy}
}

// JobListing is one posting as fetched from the provider. Only optional
// fields are pointers; nothing here is validated beyond decoding.
type JobListing struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	SalaryMin    *float64 `json:"salary_min,omitempty"`
	SalaryMax    *float64 `json:"salary_max,omitempty"`
	Created      string   `json:"created"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description"`
	RedirectURL  string   `json:"redirect_url"`
	ContractType string   `json:"contract_type,omitempty"`
	ContractTime string   `json:"contract_time,omitempty"`
}

// ResultPage is one page of listings plus the total match count
type ResultPage struct {
	Jobs  []JobListing `json:"results"`
	Total int          `json:"count"`
	Page  int          `json:"page"`
}

// Category is a job category label for a country
type Category struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// Query is a single upstream search request
type Query struct {
	Country  string
	Keywords string
	Location string
	Page     int
	PageSize int
	Filters  FilterSet
}

// Option is a value/label pair for select inputs
type Option struct {
	Value string
	Label string
}

// Countries lists the selectable countries, sentinel first
var Countries = []Option{
	{NoCountry, "Select Country"},
	{"gb", "United Kingdom"},
	{"us", "United States"},
	{"ca", "Canada"},
	{"au", "Australia"},
	{"de", "Germany"},
	{"fr", "France"},
	{"nl", "Netherlands"},
	{"za", "South Africa"},
	{"in", "India"},
}

// JobTypes lists contract filters; the empty value means all types
var JobTypes = []Option{
	{"", "All Job Types"},
	{"permanent", "Permanent"},
	{"contract", "Contract"},
	{"temporary", "Temporary"},
	{"part_time", "Part Time"},
	{"full_time", "Full Time"},
}

// SortOptions lists the supported orderings
var SortOptions = []Option{
	{DefaultSortBy, "Relevance"},
	{"date", "Date Posted"},
	{"salary", "Salary"},
}

// KnownOption reports whether value is one of opts
func KnownOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
