package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/honeycarbs/job-finder/internal/domain"
	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Coordinator is the session state machine behind the UI
type Coordinator interface {
	State(ctx context.Context, sid string) (job.State, error)
	Consume(ctx context.Context, sid string) (job.State, string, error)
	Search(ctx context.Context, sid string, req domain.SearchRequest) (job.State, error)
	ChangePage(ctx context.Context, sid string, n int) (job.State, error)
	ChangeFilters(ctx context.Context, sid string, f domain.FilterSet) (job.State, error)
	Reset(ctx context.Context, sid string) (job.State, error)
	ToggleFilters(ctx context.Context, sid string) (job.State, error)
	SelectJob(ctx context.Context, sid, jobID string) (job.State, error)
	CloseJob(ctx context.Context, sid string) (job.State, error)
	Export(ctx context.Context, sid string) (job.State, error)
	Notify(ctx context.Context, sid, msg string) (job.State, error)
	CanExport() bool
}

// Deps are the handlers' collaborators
type Deps struct {
	Coordinator Coordinator
	Provider    job.Provider
	MCP         http.Handler // optional
	Logger      *logging.Logger
	// SecureCookies marks the session cookie Secure
	SecureCookies bool
}

// NewRouter builds the gin engine serving every route
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsCfg))

	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if deps.MCP != nil {
		mcp := gin.WrapH(deps.MCP)
		r.GET("/mcp/stream", mcp)
		r.POST("/mcp/stream", mcp)
		r.DELETE("/mcp/stream", mcp)
	}

	h := &handlers{coord: deps.Coordinator, log: deps.Logger}
	ui := r.Group("/", sessions(deps.SecureCookies))
	{
		ui.GET("/", h.index)
		ui.POST("/search", h.search)
		ui.POST("/reset", h.reset)
		ui.POST("/page", h.page)
		ui.POST("/filters", h.filters)
		ui.POST("/filters/toggle", h.toggleFilters)
		ui.POST("/filters/clear", h.clearFilters)
		ui.POST("/jobs/close", h.closeJob)
		ui.POST("/jobs/:id", h.selectJob)
		ui.POST("/export", h.export)
	}

	a := &api{coord: deps.Coordinator, provider: deps.Provider, log: deps.Logger}
	v1 := r.Group("/api/v1")
	{
		v1.GET("/jobs/:country/search/:page", a.search)
		v1.GET("/jobs/:country/categories", a.categories)
		v1.GET("/session", sessions(deps.SecureCookies), a.session)
	}

	return r, nil
}
