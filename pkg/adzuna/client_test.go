package adzuna

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		AppID:   "id",
		AppKey:  "key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return client, srv
}

func TestSearchValues(t *testing.T) {
	t.Run("default filters send only base params", func(t *testing.T) {
		v := SearchValues("id", "key", " Developer ", "London ", 20, Filters{SortBy: "relevance"})

		assert.Equal(t, url.Values{
			"app_id":           {"id"},
			"app_key":          {"key"},
			"results_per_page": {"20"},
			"what":             {"Developer"},
			"where":            {"London"},
		}, v)
	})

	t.Run("empty keyword and location are dropped", func(t *testing.T) {
		v := SearchValues("id", "key", "   ", "", 20, Filters{})

		assert.NotContains(t, v, "what")
		assert.NotContains(t, v, "where")
	})

	t.Run("only max salary is sent when min is absent", func(t *testing.T) {
		v := SearchValues("id", "key", "go", "", 20, Filters{SalaryMax: ptr(50000)})

		assert.Equal(t, "50000", v.Get("salary_max"))
		assert.NotContains(t, v, "salary_min")
	})

	t.Run("optional filters", func(t *testing.T) {
		v := SearchValues("id", "key", "go", "", 20, Filters{
			SalaryMin: ptr(30000.5),
			Contract:  "permanent",
			SortBy:    "date",
		})

		assert.Equal(t, "30000.5", v.Get("salary_min"))
		assert.Equal(t, "permanent", v.Get("contract"))
		assert.Equal(t, "date", v.Get("sort_by"))
	})

	t.Run("missing credentials are omitted", func(t *testing.T) {
		v := SearchValues("", "", "go", "", 20, Filters{})

		assert.NotContains(t, v, "app_id")
		assert.NotContains(t, v, "app_key")
	})
}

func TestSearchRequestShape(t *testing.T) {
	var gotPath string
	var gotQuery url.Values

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"1","title":"Go Developer","company":{"display_name":"Acme"},"salary_min":40000,"salary_max":null}],"count":1}`))
	})

	res, err := client.Search(context.Background(), "gb", "Developer", "London", 1, 20, Filters{SortBy: "relevance"})
	require.NoError(t, err)

	assert.Equal(t, "/v1/api/jobs/gb/search/1", gotPath)
	assert.Equal(t, "Developer", gotQuery.Get("what"))
	assert.Equal(t, "London", gotQuery.Get("where"))
	assert.Equal(t, "20", gotQuery.Get("results_per_page"))
	assert.Equal(t, "id", gotQuery.Get("app_id"))
	assert.Equal(t, "key", gotQuery.Get("app_key"))
	for _, k := range []string{"salary_min", "salary_max", "contract", "sort_by"} {
		assert.NotContains(t, gotQuery, k)
	}

	require.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Acme", res.Results[0].Company.DisplayName)
	require.NotNil(t, res.Results[0].SalaryMin)
	assert.Equal(t, 40000.0, *res.Results[0].SalaryMin)
	assert.Nil(t, res.Results[0].SalaryMax)
}

func TestSearchMissingFieldsDefault(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	res, err := client.Search(context.Background(), "gb", "x", "", 3, 20, Filters{})
	require.NoError(t, err)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Count)
}

func TestSearchIssuesOneRequestPerCall(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "gb", "x", "", 1, 20, Filters{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"upstream exception preferred", http.StatusUnauthorized, `{"exception":"invalid_app_id","display":"Authorisation failed"}`, "invalid_app_id"},
		{"no exception field", http.StatusBadRequest, `{"display":"bad"}`, SearchFailedMessage},
		{"non json body", http.StatusInternalServerError, `oops`, SearchFailedMessage},
		{"undecodable success body", http.StatusOK, `{"results": [`, SearchFailedMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Search(context.Background(), "gb", "x", "", 1, 20, Filters{})
			require.Error(t, err)

			var rerr *RequestError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tc.wantMsg, rerr.Message)
		})
	}
}

func TestSearchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(Config{AppID: "id", AppKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "gb", "x", "", 1, 20, Filters{})
	assert.EqualError(t, err, SearchFailedMessage)
}

func TestSearchRejectsPathInjection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Search(context.Background(), "gb/../x", "x", "", 1, 20, Filters{})
	assert.EqualError(t, err, SearchFailedMessage)
}

func TestCategories(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/api/jobs/us/categories", r.URL.Path)
			assert.Equal(t, "id", r.URL.Query().Get("app_id"))
			_, _ = w.Write([]byte(`{"results":[{"tag":"it-jobs","label":"IT Jobs"}]}`))
		})

		cats, err := client.Categories(context.Background(), "us")
		require.NoError(t, err)
		assert.Equal(t, []Category{{Tag: "it-jobs", Label: "IT Jobs"}}, cats)
	})

	t.Run("failure never exposes upstream text", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"exception":"invalid_app_id"}`))
		})

		_, err := client.Categories(context.Background(), "us")
		assert.EqualError(t, err, CategoriesFailedMessage)
	})
}
