package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/gres/internal/scan"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Search(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\nalpha beta\n"), 0o644))

	h := &handlers{}
	res, err := h.run("alpha", path, false, scan.Config{Template: `\0`, ShowNames: true}, "search")
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "alpha")
	assert.Contains(t, text, "f.txt")
}

func TestRun_ReplaceWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("old line\nkeep\n"), 0o644))

	h := &handlers{}
	cfg := scan.Config{Template: "new", Write: true, Quiet: true, ShowNames: true}
	res, err := h.run("old line", path, false, cfg, "replace")
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\nkeep\n", string(data))

	// Quiet write mode prints nothing per line; the client must still be
	// told what happened.
	text := res.Content[0].(mcp.TextContent).Text
	assert.NotEqual(t, "no matches", text)
	assert.Contains(t, text, "rewrote 1 file(s)")
	assert.Contains(t, text, "1 replaced")
}

func TestRun_ReplaceWriteNoMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep\n"), 0o644))

	h := &handlers{}
	cfg := scan.Config{Template: "new", Write: true, Quiet: true, ShowNames: true}
	res, err := h.run("absent", path, false, cfg, "replace")
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Equal(t, "no matches", text)
}

func TestRun_IgnoreCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alpha\n"), 0o644))

	h := &handlers{}
	res, err := h.run("alpha", path, true, scan.Config{Template: `\0`}, "search")
	require.NoError(t, err)
	require.False(t, res.IsError)
}

func TestRun_BadPattern(t *testing.T) {
	h := &handlers{}
	res, err := h.run("(unclosed", "whatever", false, scan.Config{Template: `\0`}, "search")
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRun_NoFiles(t *testing.T) {
	h := &handlers{}
	res, err := h.run("x", filepath.Join(t.TempDir(), "*.none"), false, scan.Config{Template: `\0`}, "search")
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
