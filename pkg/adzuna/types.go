package adzuna

import (
	"net/http"

	"github.com/honeycarbs/job-finder/pkg/logging"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client queries the Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Filters are the optional refinements layered onto a search
type Filters struct {
	SalaryMin *float64
	SalaryMax *float64
	Contract  string
	SortBy    string
}

// SearchResult is one page of postings as returned upstream
type SearchResult struct {
	Results []Posting `json:"results"`
	Count   int       `json:"count"`
}

// Posting mirrors a single Adzuna job listing. Salary bounds are pointers
// because Adzuna sends null for unknown values.
type Posting struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Company      companySummary  `json:"company"`
	Location     locationSummary `json:"location"`
	Description  string          `json:"description"`
	Created      string          `json:"created"`
	RedirectURL  string          `json:"redirect_url"`
	ContractTime string          `json:"contract_time"`
	ContractType string          `json:"contract_type"`
	Category     Category        `json:"category"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	SalaryMin    *float64        `json:"salary_min"`
	SalaryMax    *float64        `json:"salary_max"`
}

type companySummary struct {
	DisplayName string `json:"display_name"`
}

type locationSummary struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

// Category is a job category as listed by /categories
type Category struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

type categoriesResponse struct {
	Results []Category `json:"results"`
}

// errorResponse is the structured body Adzuna sends with non-2xx statuses
type errorResponse struct {
	Exception string `json:"exception"`
	Display   string `json:"display"`
	Doc       string `json:"doc"`
}
