package adzuna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/honeycarbs/job-finder/pkg/logging"
)

const (
	defaultBaseURL  = "https://api.adzuna.com"
	defaultPageSize = 20
	defaultSortBy   = "relevance"
	maxErrorBody    = 4096
)

// NewClient instantiates an Adzuna API client. Missing credentials are not an
// error here: Adzuna rejects the request and the caller sees the fallback message.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("adzuna: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Search issues exactly one GET for the given country and page
func (c *Client) Search(
	ctx context.Context,
	country, keywords, location string,
	page, pageSize int,
	filters Filters,
) (*SearchResult, error) {
	if c == nil {
		return nil, &RequestError{Message: SearchFailedMessage}
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	u, err := c.endpoint(SearchValues(c.appID, c.appKey, keywords, location, pageSize, filters),
		"v1", "api", "jobs", country, "search", strconv.Itoa(page))
	if err != nil {
		c.logger.Error("error searching jobs", "err", err)
		return nil, &RequestError{Message: SearchFailedMessage}
	}

	var payload SearchResult
	if err := c.get(ctx, u, &payload); err != nil {
		c.logger.Error("error searching jobs", "err", err, "country", country, "page", page)
		return nil, &RequestError{Message: searchMessage(err)}
	}

	if payload.Results == nil {
		payload.Results = []Posting{}
	}

	return &payload, nil
}

// Categories lists the job categories available for a country
func (c *Client) Categories(ctx context.Context, country string) ([]Category, error) {
	if c == nil {
		return nil, &RequestError{Message: CategoriesFailedMessage}
	}

	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	stripEmpty(values)

	u, err := c.endpoint(values, "v1", "api", "jobs", country, "categories")
	if err != nil {
		c.logger.Error("error fetching categories", "err", err)
		return nil, &RequestError{Message: CategoriesFailedMessage}
	}

	var payload categoriesResponse
	if err := c.get(ctx, u, &payload); err != nil {
		c.logger.Error("error fetching categories", "err", err, "country", country)
		return nil, &RequestError{Message: CategoriesFailedMessage}
	}

	if payload.Results == nil {
		return []Category{}, nil
	}
	return payload.Results, nil
}

// SearchValues builds the query string for a search. Every empty value is
// dropped, so the wire format never carries an empty parameter.
func SearchValues(appID, appKey, keywords, location string, pageSize int, filters Filters) url.Values {
	values := url.Values{}
	values.Set("app_id", appID)
	values.Set("app_key", appKey)
	values.Set("results_per_page", strconv.Itoa(pageSize))
	values.Set("what", strings.TrimSpace(keywords))
	values.Set("where", strings.TrimSpace(location))

	if filters.SalaryMin != nil {
		values.Set("salary_min", formatAmount(*filters.SalaryMin))
	}
	if filters.SalaryMax != nil {
		values.Set("salary_max", formatAmount(*filters.SalaryMax))
	}
	if filters.Contract != "" {
		values.Set("contract", filters.Contract)
	}
	if filters.SortBy != "" && filters.SortBy != defaultSortBy {
		values.Set("sort_by", filters.SortBy)
	}

	stripEmpty(values)
	return values
}

func stripEmpty(values url.Values) {
	for key, vs := range values {
		if len(vs) == 0 || vs[0] == "" {
			delete(values, key)
		}
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Client) endpoint(values url.Values, segments ...string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	for _, s := range segments {
		if s == "" || strings.ContainsAny(s, "/?#") {
			return "", fmt.Errorf("adzuna: invalid path segment %q", s)
		}
	}

	u.Path = path.Join(append([]string{u.Path}, segments...)...)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// upstreamError is an internal failure that may carry Adzuna's exception text
type upstreamError struct {
	status    int
	exception string
	body      string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("adzuna: API error (%d): %s", e.status, e.body)
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("adzuna: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("adzuna: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		uerr := &upstreamError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}

		var payload errorResponse
		if json.Unmarshal(body, &payload) == nil {
			uerr.exception = payload.Exception
		}
		return uerr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("adzuna: decode response: %w", err)
	}

	return nil
}

func searchMessage(err error) string {
	var uerr *upstreamError
	if errors.As(err, &uerr) && uerr.exception != "" {
		return uerr.exception
	}
	return SearchFailedMessage
}
