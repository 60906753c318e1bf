// Package mcp implements the Model Context Protocol server, exposing gres
// search and replace to LLMs. This enables AI assistants to inspect and
// transform files through a standardised protocol instead of shelling out.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other
// MCP clients.
func Serve() error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{}

	s := server.NewMCPServer(
		"gres",
		Version,
		server.WithToolCapabilities(true),
	)

	registerTools(s, h)

	slog.Info("gres MCP server ready", "version", Version, "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers. gres is stateless between
// calls; the struct exists so tool methods share one receiver.
type handlers struct{}

// registerTools exposes gres operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("gres_search",
			mcp.WithDescription("Search files for a regex and show what a replacement template would produce, without modifying anything"),
			mcp.WithString("pattern", mcp.Required(), mcp.Description("Regex pattern (e.g., 'error|warn', 'TODO.*fix')")),
			mcp.WithString("template", mcp.Description("Replacement template with \\0-\\9 backreferences (default: \\0, i.e. show matches unchanged)")),
			mcp.WithString("path", mcp.Required(), mcp.Description("File, directory or glob to search")),
			mcp.WithNumber("context", mcp.Description("Lines of context around each match")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case insensitive matching")),
			mcp.WithBoolean("exec", mcp.Description("Evaluate {...} expressions in the template")),
		),
		h.search,
	)

	s.AddTool(
		mcp.NewTool("gres_replace",
			mcp.WithDescription("Apply a regex search/replace to files. With write=false (default) returns the changed lines without touching disk; with write=true rewrites the files in place behind a backup"),
			mcp.WithString("pattern", mcp.Required(), mcp.Description("Regex pattern")),
			mcp.WithString("template", mcp.Required(), mcp.Description("Replacement template with \\0-\\9 backreferences; empty result deletes the line")),
			mcp.WithString("path", mcp.Required(), mcp.Description("File, directory or glob to rewrite")),
			mcp.WithBoolean("write", mcp.Description("Actually modify the files (default: preview only)")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case insensitive matching")),
			mcp.WithBoolean("exec", mcp.Description("Evaluate {...} expressions in the template")),
		),
		h.replace,
	)
}
