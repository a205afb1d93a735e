package mcp

import (
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-finder/internal/domain/job"
	"github.com/honeycarbs/job-finder/internal/mcp/tools"
	"github.com/honeycarbs/job-finder/pkg/logging"
)

const (
	serverName    = "job-finder"
	serverVersion = "0.1.0"
)

// NewServer builds an MCP server exposing the job tools
func NewServer(provider job.Provider, logger *logging.Logger) *sdkmcp.Server {
	impl := &sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	server := sdkmcp.NewServer(impl, nil)
	tools.Register(server, provider, logger,
		tools.WithJobSearch(),
		tools.WithJobCategories(),
	)
	return server
}

// NewHandler serves the MCP server over the streamable HTTP transport
func NewHandler(provider job.Provider, logger *logging.Logger) http.Handler {
	server := NewServer(provider, logger)
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
