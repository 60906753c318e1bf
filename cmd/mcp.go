/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// mcp.go implements the "gres mcp" command, starting the Model Context
// Protocol server over stdio.

package cmd

import (
	"github.com/jpl-au/gres/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server (stdio)",
		Long: `Starts a Model Context Protocol server over stdin/stdout, exposing
gres_search and gres_replace tools to MCP clients such as Claude
Desktop. Interactive prompting is CLI-only; the server applies or
previews replacements non-interactively.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcp.Serve()
		},
	}
}

func init() {
	rootCmd.AddCommand(newMCPCmd())
}
