/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines CLI flags and accessors for shared state.
//
// Separated from root.go to isolate flag definitions from command logic.
// Subcommands access shared writers via exported accessor functions
// rather than directly accessing the variables.

package cmd

import (
	"io"
	"os"
)

var (
	write        bool
	prompt       bool
	quiet        bool
	printAll     bool
	contextLines int
	execMode     bool
	ignoreCase   bool
	lineNumbers  bool
	noColor      bool
	hidden       bool
	noJournal    bool
)

// out and errOut are the writers for command output and diagnostics.
// Tests can replace them to capture output. in supplies interactive
// commands and stream input.
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
	in     io.Reader = os.Stdin
)

// Out returns the output writer.
func Out() io.Writer { return out }

// ErrOut returns the diagnostic writer.
func ErrOut() io.Writer { return errOut }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// SetErrOut sets the diagnostic writer (for testing).
func SetErrOut(w io.Writer) { errOut = w }

// SetIn sets the input reader (for testing).
func SetIn(r io.Reader) { in = r }

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&write, "write", "w", false, "Rewrite files in place (backup kept during the rewrite)")
	f.BoolVarP(&prompt, "prompt", "p", false, "Ask before each replacement (implies --write)")
	f.BoolVarP(&quiet, "quiet", "q", false, "Suppress match output")
	f.BoolVarP(&printAll, "print-all", "a", false, "Print non-matching lines too")
	f.IntVarP(&contextLines, "context", "C", 0, "Lines of context around each match")
	f.BoolVarP(&execMode, "exec", "e", false, "Evaluate {...} expressions in the template")
	f.BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case insensitive matching")
	f.BoolVarP(&lineNumbers, "line-numbers", "n", false, "Prefix output with file and line numbers")
	f.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	f.BoolVar(&hidden, "hidden", false, "Include hidden files when walking directories")
	f.BoolVar(&noJournal, "no-journal", false, "Skip journalling this run")
}
