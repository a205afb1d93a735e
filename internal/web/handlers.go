package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/internal/ui"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

var filterFields = []string{ui.FieldSalaryMin, ui.FieldSalaryMax, ui.FieldJobType, ui.FieldSortBy}

type handlers struct {
	coord Coordinator
	log   *logging.Logger
}

func (h *handlers) index(c *gin.Context) {
	st, notice, err := h.coord.Consume(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", ui.NewPageView(st, notice, h.coord.CanExport()))
}

func (h *handlers) search(c *gin.Context) {
	st, err := h.coord.State(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	form := ui.NewSearchForm(st.Draft, st.Loading).
		Fill(c.PostForm("what"), c.PostForm("where"), c.DefaultPostForm("country", st.Draft.Country))

	_, err = h.coord.Search(c.Request.Context(), sessionID(c), form.Submit())
	h.done(c, err)
}

func (h *handlers) reset(c *gin.Context) {
	_, err := h.coord.Reset(c.Request.Context(), sessionID(c))
	h.done(c, err)
}

func (h *handlers) page(c *gin.Context) {
	n, err := strconv.Atoi(c.PostForm("page"))
	if err != nil {
		h.done(c, nil)
		return
	}
	_, err = h.coord.ChangePage(c.Request.Context(), sessionID(c), n)
	h.done(c, err)
}

// filters applies the posted field, or every field when none is named
func (h *handlers) filters(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	st, err := h.coord.State(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}

	fields := filterFields
	if f := c.PostForm("field"); f != "" {
		fields = []string{f}
	}

	panel := ui.NewFiltersPanel(st.Filters, st.FiltersOpen)
	for _, f := range fields {
		v, ok := c.GetPostForm(f)
		if !ok {
			continue
		}
		if _, err := panel.Edit(f, v); err != nil {
			_, err = h.coord.Notify(ctx, sid, err.Error())
			h.done(c, err)
			return
		}
	}

	_, err = h.coord.ChangeFilters(ctx, sid, panel.Filters())
	h.done(c, err)
}

func (h *handlers) toggleFilters(c *gin.Context) {
	_, err := h.coord.ToggleFilters(c.Request.Context(), sessionID(c))
	h.done(c, err)
}

func (h *handlers) clearFilters(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.coord.State(ctx, sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	panel := ui.NewFiltersPanel(st.Filters, st.FiltersOpen)
	_, err = h.coord.ChangeFilters(ctx, sessionID(c), panel.Clear())
	h.done(c, err)
}

func (h *handlers) selectJob(c *gin.Context) {
	_, err := h.coord.SelectJob(c.Request.Context(), sessionID(c), c.Param("id"))
	h.done(c, err)
}

func (h *handlers) closeJob(c *gin.Context) {
	_, err := h.coord.CloseJob(c.Request.Context(), sessionID(c))
	h.done(c, err)
}

func (h *handlers) export(c *gin.Context) {
	_, err := h.coord.Export(c.Request.Context(), sessionID(c))
	h.done(c, err)
}

// done redirects back to the page after an action (post/redirect/get)
func (h *handlers) done(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error("session update failed", "session", sessionID(c), "err", err)
	c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
}

var _ Coordinator = (*job.Coordinator)(nil)
