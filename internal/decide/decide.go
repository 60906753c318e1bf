// Package decide implements the interactive per-match decision protocol.
//
// For each candidate match the engine prompts the operator and returns a
// decision for the rewrite engine to obey. Two commands set sticky
// state: "continue" performs every remaining match in the current file
// without prompting, and "leave" switches the whole run out of
// interactive mode. "print" and "help" are handled inside the prompt
// loop and never escape as decisions.
package decide

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the operator's choice for one candidate match.
type Decision int

const (
	// Perform applies the substitution to this match.
	Perform Decision = iota
	// SkipMatch keeps the original line and moves to the next match.
	SkipMatch
	// SkipFile abandons the rest of this file, keeping edits already written.
	SkipFile
	// PerformRest applies this and every remaining match in the file.
	PerformRest
	// Leave exits interactive mode for the rest of the run.
	Leave
	// Abort restores the current file from backup and terminates the run.
	Abort
	// Quit writes the remaining tail unchanged and terminates the run.
	Quit
)

const legend = `  y(es)       apply this substitution
  n(o)        keep the line unchanged
  s(kip)      skip the rest of this file
  c(ontinue)  apply this and all remaining matches in this file
  l(eave)     leave interactive mode for the rest of the run
  a(bort)     restore this file from its backup and exit
  q(uit)      write the rest unchanged and exit
  p(rint)     show one more line of context
  h(elp)      show this help
`

// Engine collects decisions over a line-based prompt protocol.
type Engine struct {
	in          *bufio.Scanner
	out         io.Writer
	performAll  bool // sticky within the current file
	left        bool // sticky for the rest of the run
	legendShown bool
}

// New returns an engine reading commands from in and prompting on out.
func New(in io.Reader, out io.Writer) *Engine {
	return &Engine{in: bufio.NewScanner(in), out: out}
}

// WillPrompt reports whether the next Ask will actually prompt, letting
// callers skip match presentation when a sticky decision is in effect.
func (e *Engine) WillPrompt() bool { return !e.left && !e.performAll }

// ResetFile clears per-file sticky state when processing moves to the
// next file. "leave" survives; "continue" does not.
func (e *Engine) ResetFile() { e.performAll = false }

// Ask prompts for a decision on the current match. render re-displays
// the match with extra lines of context on each side; it is called after
// every "print" command with a cumulative count. Closed input is treated
// as quit.
func (e *Engine) Ask(render func(extra int)) Decision {
	if e.left || e.performAll {
		return Perform
	}
	if !e.legendShown {
		fmt.Fprint(e.out, legend)
		e.legendShown = true
	}

	extra := 0
	for {
		fmt.Fprint(e.out, "> ")
		if !e.in.Scan() {
			return Quit
		}
		cmd := strings.TrimSpace(e.in.Text())
		if cmd == "" {
			continue
		}

		switch strings.ToLower(cmd) {
		case "y", "yes":
			return Perform
		case "n", "no":
			return SkipMatch
		case "s", "skip":
			return SkipFile
		case "c", "continue":
			e.performAll = true
			return PerformRest
		case "l", "leave":
			e.left = true
			return Leave
		case "a", "abort":
			return Abort
		case "q", "quit":
			return Quit
		case "p", "print":
			extra++
			if render != nil {
				render(extra)
			}
		default:
			fmt.Fprint(e.out, legend)
		}
	}
}
