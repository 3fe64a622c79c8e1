package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"welfare-mcp/internal/app"
)

// Server exposes the welfare analytics as MCP tools.
type Server struct {
	server *sdk.Server
	app    *app.App
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(a *app.App, version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := sdk.NewServer(
		&sdk.Implementation{
			Name:    "welfare-mcp",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, app: a}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Str("data_path", s.app.Config.DataPath).Msg("Serving MCP over stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
