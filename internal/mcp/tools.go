// tools.go implements the gres_search and gres_replace tool handlers.
//
// Separated from server.go to isolate pipeline assembly from protocol
// registration. Both handlers build the same scan pipeline the CLI uses,
// with colour off and output captured into a buffer for the client.

package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/jpl-au/gres/internal/scan"
	"github.com/jpl-au/gres/internal/walk"
	"github.com/mark3labs/mcp-go/mcp"
)

// search handles gres_search tool calls.
func (h *handlers) search(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern is required"), nil //nolint:nilerr
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	template := getString(req, "template", `\0`)
	cfg := scan.Config{
		Template:  template,
		Context:   getInt(req, "context", 0),
		Exec:      getBool(req, "exec", false),
		ShowNames: true,
	}
	return h.run(pattern, path, getBool(req, "ignore_case", false), cfg, "search")
}

// replace handles gres_replace tool calls.
func (h *handlers) replace(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern is required"), nil //nolint:nilerr
	}
	template, err := req.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError("template is required"), nil //nolint:nilerr
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	write := getBool(req, "write", false)
	cfg := scan.Config{
		Template:  template,
		Write:     write,
		Quiet:     write,
		Exec:      getBool(req, "exec", false),
		ShowNames: true,
	}
	return h.run(pattern, path, getBool(req, "ignore_case", false), cfg, "replace")
}

// run assembles the pipeline and executes it over the expanded path,
// returning combined output and diagnostics as the tool result.
func (h *handlers) run(pattern, path string, ignoreCase bool, cfg scan.Config, op string) (*mcp.CallToolResult, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pattern: %v", err)), nil
	}
	cfg.Pattern = re

	var out, errOut bytes.Buffer
	s, err := scan.New(cfg, &out, &errOut, noInput{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	paths := walk.Expand([]string{path}, walk.Options{}, &errOut)
	if len(paths) == 0 && errOut.Len() == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no files match %s", path)), nil
	}

	err = s.Run(paths)
	slog.Info("tool call", "op", op, "pattern", pattern, "path", path, "files", len(paths), "error", err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := out.String() + errOut.String()
	if cfg.Write {
		// Quiet write mode captures no per-line output; report what the
		// rewrite actually did instead.
		if t := s.Totals(); t.Replaced+t.Deleted > 0 {
			result = fmt.Sprintf("rewrote %d file(s): %d replaced, %d deleted\n%s",
				t.Files, t.Replaced, t.Deleted, errOut.String())
		}
	}
	if result == "" {
		result = "no matches"
	}
	return mcp.NewToolResultText(result), nil
}

// noInput is the interactive command source for a server that never
// prompts; reads report EOF immediately.
type noInput struct{}

func (noInput) Read([]byte) (int, error) { return 0, io.EOF }
