/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from flags.go to isolate pipeline assembly from flag
// definitions.
//
// Design: the root command itself performs the search/replace; guide,
// history, config, mcp and version are subcommands. Config is loaded in
// RunE (not init) so tests can point HOME at a temp directory. Operator
// quit/abort from interactive mode are clean terminations, not errors.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/jpl-au/gres/internal/config"
	"github.com/jpl-au/gres/internal/journal"
	"github.com/jpl-au/gres/internal/rewrite"
	"github.com/jpl-au/gres/internal/scan"
	"github.com/jpl-au/gres/internal/walk"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "gres <pattern> <template> [path...]",
	Short: "Search and replace text, line by line",
	Long: `gres searches text for a regular expression and shows or applies a
templated replacement. Without --write it previews; with --write it
rewrites files in place behind a backup; with --prompt it asks about
each match. Reads standard input when no paths are given.

  gres 'TODO' 'DONE' notes.txt        # preview
  gres -w 'TODO' 'DONE' notes.txt     # rewrite
  gres -w -p 'colou?r' 'color' docs/  # ask per match

See 'gres guide' for templates, expressions and interactive commands.`,
	Args:          cobra.MinimumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// RunE is assigned in init to break the initialization cycle between
// rootCmd and runRoot (which reads rootCmd's flags via flagChanged).
func init() {
	rootCmd.RunE = runRoot
}

func runRoot(_ *cobra.Command, args []string) error {
	if contextLines < 0 {
		return fmt.Errorf("context lines (-C) must be >= 0")
	}
	if prompt {
		write = true
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !flagChanged("context") && contextLines == 0 {
		contextLines = cfg.ContextLines()
	}
	if !hidden {
		hidden = cfg.IncludeHidden()
	}

	pattern := args[0]
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	paths := args[2:]
	if write && len(paths) == 0 {
		return fmt.Errorf("--write requires file paths (cannot rewrite a stream in place)")
	}

	files := paths
	if len(paths) > 0 {
		files = walk.Expand(paths, walk.Options{Hidden: hidden}, ErrOut())
	}

	if write && !noJournal && cfg.JournalEnabled() {
		if err := journal.Open(cfg.JournalPath()); err != nil {
			fmt.Fprintf(ErrOut(), "warning: journal unavailable: %v\n", err)
		}
		defer journal.Close()
	}

	sc, err := scan.New(scan.Config{
		Pattern:     re,
		Template:    args[1],
		Write:       write,
		Interactive: prompt,
		Quiet:       quiet,
		PrintAll:    printAll,
		Context:     contextLines,
		Exec:        execMode,
		Colour:      colourEnabled(cfg),
		ShowNames:   lineNumbers || len(files) > 1,
	}, Out(), ErrOut(), in)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		err = sc.Stream(in, "stdin")
	} else {
		err = sc.Run(files)
	}
	// Operator-initiated termination; the run ends but nothing failed.
	if errors.Is(err, rewrite.ErrQuit) || errors.Is(err, rewrite.ErrAborted) {
		return nil
	}
	return err
}

// colourEnabled resolves the colour decision: flag beats config beats
// terminal detection.
func colourEnabled(cfg *config.Config) bool {
	if noColor {
		return false
	}
	switch cfg.ColourMode() {
	case config.ColourAlways:
		return true
	case config.ColourNever:
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// flagChanged reports whether the operator set the named flag explicitly.
func flagChanged(name string) bool {
	return rootCmd.Flags().Changed(name)
}

// Execute runs the root command and handles process lifecycle.
// Exit code 1 indicates error; diagnostics have already been printed in
// the gres error format.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gres: %v\n", err)
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
