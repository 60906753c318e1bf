// Package rewrite mutates one file in place, safely.
//
// The engine takes over from the scanner at the first matching line of a
// fully buffered document. It copies the file to a backup, rewrites the
// target from the top (the prefix before the first match is known clean),
// and applies a decision per remaining match. The backup is removed on
// clean completion and used for restoration on abort or unexpected
// failure; quit and skip are graceful endings that keep edits already on
// disk.
//
// Run-level terminations surface as ErrAborted and ErrQuit so the
// scanner can distinguish "stop everything" from a per-file failure.
package rewrite

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/gres/internal/decide"
	"github.com/jpl-au/gres/internal/diff"
	"github.com/jpl-au/gres/internal/document"
	"github.com/jpl-au/gres/internal/highlight"
	"github.com/jpl-au/gres/internal/subst"
)

var (
	// ErrAborted reports an operator abort: the file was restored and the
	// whole run must terminate.
	ErrAborted = errors.New("aborted")
	// ErrQuit reports an operator quit: partial edits are kept and the
	// whole run must terminate.
	ErrQuit = errors.New("quit")
)

// Options configures a rewrite pass. Values come from the immutable run
// configuration and do not change between files.
type Options struct {
	Interactive bool // prompt per match
	Quiet       bool // suppress match-line echo
	PrintAll    bool // echo non-matching lines while writing
	Context     int  // context lines shown at prompts
	ShowNames   bool // prefix echoed lines with <file>:<line>:
}

// Result summarises what a rewrite did to one file.
type Result struct {
	Replaced int  // substitutions written
	Deleted  int  // lines removed by empty substitution
	Skipped  bool // operator skipped the rest of the file; its tail was written unchanged
}

// Rewriter applies substitutions to files in place.
type Rewriter struct {
	eval   *subst.Evaluator
	hl     *highlight.Renderer
	dec    *decide.Engine
	out    io.Writer
	errOut io.Writer
	opts   Options
}

// New returns a rewriter. dec may be nil when Options.Interactive is
// false.
func New(eval *subst.Evaluator, hl *highlight.Renderer, dec *decide.Engine, out, errOut io.Writer, opts Options) *Rewriter {
	return &Rewriter{eval: eval, hl: hl, dec: dec, out: out, errOut: errOut, opts: opts}
}

// File rewrites the document's file in place. The document must be fully
// buffered with the cursor on the first matching line. first, when
// non-nil, is the decision the scanner already collected for that match;
// reusing it avoids prompting the operator twice.
func (r *Rewriter) File(doc *document.Document, first *decide.Decision) (Result, error) {
	var res Result

	bak, err := createBackup(doc.Name())
	if err != nil {
		return res, err
	}

	f, err := os.Create(doc.Name())
	if err != nil {
		// Nothing was written; the original is intact.
		if rmErr := bak.Remove(); rmErr != nil {
			fmt.Fprintf(r.errOut, "gres: %s: %v\n", doc.Name(), rmErr)
		}
		return res, err
	}
	w := bufio.NewWriter(f)

	// The prefix before the first match is known to contain none.
	for i := 0; i < doc.Cursor(); i++ {
		if _, err := w.WriteString(doc.Line(i)); err != nil {
			return res, r.fail(doc, f, bak, err)
		}
	}

	firstIter := true
	for {
		if err := r.processLine(doc, w, firstIter, first, &res); err != nil {
			switch {
			case errors.Is(err, errSkipFile):
				// The current line was not written; it is part of the tail.
				res.Skipped = true
				return res, r.finish(doc, w, f, bak, doc.Cursor())
			case errors.Is(err, ErrQuit):
				if finErr := r.finish(doc, w, f, bak, doc.Cursor()); finErr != nil {
					return res, finErr
				}
				return res, ErrQuit
			case errors.Is(err, ErrAborted):
				if failErr := r.fail(doc, f, bak, nil); failErr != nil {
					return res, failErr
				}
				return res, ErrAborted
			default:
				return res, r.fail(doc, f, bak, err)
			}
		}
		firstIter = false

		if _, ok, err := doc.Next(); err != nil {
			return res, r.fail(doc, f, bak, err)
		} else if !ok {
			break
		}
	}

	return res, r.finish(doc, w, f, bak, -1)
}

// Prompt presents a candidate match and collects a decision. The
// scanner uses this for the first match of a file before handing over,
// and File reuses the result so the operator is never prompted twice
// for the same match. Returns Perform when no prompt is due.
func (r *Rewriter) Prompt(doc *document.Document, m subst.Match, newText string) decide.Decision {
	if !r.opts.Interactive || r.dec == nil || !r.dec.WillPrompt() {
		return decide.Perform
	}
	r.renderPrompt(doc, m, newText, 0)
	return r.dec.Ask(func(extra int) { r.renderPrompt(doc, m, newText, extra) })
}

// errSkipFile is internal to the decision loop; it never escapes File.
var errSkipFile = errors.New("skip file")

// processLine handles the line at the document cursor: apply, skip, or
// propagate a terminating decision.
func (r *Rewriter) processLine(doc *document.Document, w *bufio.Writer, firstIter bool, first *decide.Decision, res *Result) error {
	text := doc.Text(doc.Cursor())
	m, ok := r.eval.Find(text, doc.Cursor())
	if !ok {
		if r.opts.PrintAll {
			r.echo(doc.Name(), doc.Cursor(), text)
		}
		_, err := w.WriteString(doc.Line(doc.Cursor()))
		return err
	}

	expansion, err := r.eval.Expand(m)
	if err != nil {
		return err
	}
	newText := m.Text[:m.Start] + expansion + m.Text[m.End:]
	display := r.hl.SubstitutedLine(m, r.eval.Segments(), r.eval.Exec(), expansion)

	d := decide.Perform
	echo := true
	if r.opts.Interactive && r.dec != nil {
		switch {
		case firstIter && first != nil:
			// The scanner already presented and prompted this match.
			d = *first
			echo = false
		case r.dec.WillPrompt():
			r.renderPrompt(doc, m, newText, 0)
			d = r.dec.Ask(func(extra int) { r.renderPrompt(doc, m, newText, extra) })
			echo = false
		default:
			d = r.dec.Ask(nil)
		}
	}
	return r.apply(doc, w, d, newText, display, res, echo)
}

// apply executes a decision for the current matched line. display is the
// highlighted form of newText used for the echo.
func (r *Rewriter) apply(doc *document.Document, w *bufio.Writer, d decide.Decision, newText, display string, res *Result, echo bool) error {
	switch d {
	case decide.Perform, decide.PerformRest, decide.Leave:
		if newText == "" {
			doc.DeleteCurrentAndRewind()
			res.Deleted++
			return nil
		}
		cur := doc.Cursor()
		doc.SetText(cur, newText)
		if echo && !r.opts.Quiet {
			r.echo(doc.Name(), cur, display)
		}
		res.Replaced++
		_, err := w.WriteString(doc.Line(cur))
		return err
	case decide.SkipMatch:
		_, err := w.WriteString(doc.Line(doc.Cursor()))
		return err
	case decide.SkipFile:
		return errSkipFile
	case decide.Abort:
		return ErrAborted
	case decide.Quit:
		return ErrQuit
	default:
		return fmt.Errorf("unhandled decision %d", d)
	}
}

// finish writes the tail from index tailFrom unchanged (-1 for none),
// closes the file, and removes the backup. Used for clean completion,
// skip, and quit; partial edits stay on disk.
func (r *Rewriter) finish(doc *document.Document, w *bufio.Writer, f *os.File, bak *backup, tailFrom int) error {
	if tailFrom >= 0 {
		for i := tailFrom; i < doc.Len(); i++ {
			if _, err := w.WriteString(doc.Line(i)); err != nil {
				return r.fail(doc, f, bak, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return r.fail(doc, f, bak, err)
	}
	if err := f.Close(); err != nil {
		return r.fail(doc, f, bak, err)
	}
	if err := bak.Remove(); err != nil {
		fmt.Fprintf(r.errOut, "gres: %s: %v\n", doc.Name(), err)
	}
	return nil
}

// fail restores the original from backup and reports the restoration.
// cause may be nil (operator abort); the returned error is the cause so
// callers can keep their own taxonomy.
func (r *Rewriter) fail(doc *document.Document, f *os.File, bak *backup, cause error) error {
	f.Close()
	if err := bak.Restore(); err != nil {
		fmt.Fprintf(r.errOut, "gres: %s: %v\n", doc.Name(), err)
	} else {
		fmt.Fprintf(r.errOut, "gres: %s: restored from backup\n", doc.Name())
	}
	return cause
}

// echo writes a line to the match output channel with its location
// prefix when enabled.
func (r *Rewriter) echo(name string, num int, text string) {
	if r.opts.ShowNames {
		fmt.Fprintf(r.out, "%s%s\n", r.hl.Prefix(name, num), text)
	} else {
		fmt.Fprintln(r.out, text)
	}
}

// renderPrompt shows the candidate match with surrounding context and an
// old/new preview. extra widens the context window; the print command
// grows it one line per repetition.
func (r *Rewriter) renderPrompt(doc *document.Document, m subst.Match, newText string, extra int) {
	n := r.opts.Context + extra
	start := m.Num - n
	if start < 0 {
		start = 0
	}
	end := m.Num + n
	if end > doc.Len()-1 {
		end = doc.Len() - 1
	}

	for i := start; i <= end; i++ {
		if i == m.Num {
			if r.opts.ShowNames {
				fmt.Fprintf(r.out, "%s%s\n", r.hl.Prefix(doc.Name(), i), r.hl.MatchLine(m))
			} else {
				fmt.Fprintln(r.out, r.hl.MatchLine(m))
			}
			continue
		}
		if r.opts.ShowNames {
			fmt.Fprintln(r.out, r.hl.ContextLine(doc.Name(), i, doc.Text(i)))
		} else {
			fmt.Fprintln(r.out, doc.Text(i))
		}
	}
	fmt.Fprint(r.out, diff.Preview(m.Text, newText, r.hl.Enabled()))
}
