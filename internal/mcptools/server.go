package mcptools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"scicalc/internal/session"
)

// Server serves the calculator tools over MCP
type Server struct {
	mcpServer *server.MCPServer
	sessions  *session.Manager
	logger    *zap.Logger
}

// NewServer creates the MCP server and registers every tool
func NewServer(name, version string, sessions *session.Manager, logger *zap.Logger) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
		sessions:  sessions,
		logger:    logger,
	}
	s.mcpServer.AddTools(s.Tools()...)
	return s
}

// Tools returns the tool definitions paired with their handlers.
func (s *Server) Tools() []server.ServerTool {
	newSession := NewNewSessionTool(s.sessions)
	press := NewPressTool(s.sessions)
	state := NewStateTool(s.sessions)
	evaluate := NewEvaluateTool()

	return []server.ServerTool{
		{Tool: newSession.GetTool(), Handler: newSession.Handle},
		{Tool: press.GetTool(), Handler: press.Handle},
		{Tool: state.GetTool(), Handler: state.Handle},
		{Tool: evaluate.GetTool(), Handler: evaluate.Handle},
	}
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server started")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}
