package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/internal/ui"
	"github.com/honeycarbs/job-finder/pkg/adzuna"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

type api struct {
	coord    Coordinator
	provider job.Provider
	log      *logging.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

// search is a stateless proxy for one upstream page
func (a *api) search(c *gin.Context) {
	country := strings.ToLower(c.Param("country"))
	if country == domain.NoCountry {
		c.JSON(http.StatusBadRequest, errorBody{Error: job.NoCountryMessage})
		return
	}

	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "page must be a positive integer"})
		return
	}

	panel := ui.NewFiltersPanel(domain.DefaultFilters(), false)
	for _, f := range filterFields {
		v, ok := c.GetQuery(f)
		if !ok {
			continue
		}
		if _, err := panel.Edit(f, v); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
	}

	res, err := a.provider.Search(c.Request.Context(), domain.Query{
		Country:  country,
		Keywords: c.Query("what"),
		Location: c.Query("where"),
		Page:     page,
		PageSize: domain.PageSize,
		Filters:  panel.Filters(),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody{Error: displayMessage(err, adzuna.SearchFailedMessage)})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (a *api) categories(c *gin.Context) {
	country := strings.ToLower(c.Param("country"))
	if country == domain.NoCountry {
		c.JSON(http.StatusBadRequest, errorBody{Error: job.NoCountryMessage})
		return
	}

	cats, err := a.provider.Categories(c.Request.Context(), country)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody{Error: displayMessage(err, adzuna.CategoriesFailedMessage)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": cats})
}

func (a *api) session(c *gin.Context) {
	st, err := a.coord.State(c.Request.Context(), sessionID(c))
	if err != nil {
		a.log.Error("session load failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": st.Phase(), "state": st})
}

// displayMessage returns the user-facing text of a request error
func displayMessage(err error, fallback string) string {
	var rerr *adzuna.RequestError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	return fallback
}
