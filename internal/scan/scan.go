// Package scan orchestrates the match/replace pipeline for a run.
//
// For each input source the scanner reads lines in streaming mode and
// tests the pattern. In display mode it prints substituted lines (with
// optional grep-style context windows); in write mode it buffers the
// document at the first match and hands control to the rewrite engine.
// Per-source failures are reported on the error channel and the source
// is skipped; only operator quit/abort ends the run early.
package scan

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/jpl-au/gres/internal/decide"
	"github.com/jpl-au/gres/internal/document"
	"github.com/jpl-au/gres/internal/highlight"
	"github.com/jpl-au/gres/internal/journal"
	"github.com/jpl-au/gres/internal/rewrite"
	"github.com/jpl-au/gres/internal/subst"
)

// Config is the immutable run configuration shared by every component.
// It is assembled once by the CLI layer and never mutated afterwards.
type Config struct {
	Pattern     *regexp.Regexp // case folding already applied
	Template    string
	Write       bool // rewrite files in place
	Interactive bool // prompt per match (implies Write)
	Quiet       bool // suppress match-line output
	PrintAll    bool // echo non-matching lines too
	Context     int  // context lines around matches (display mode)
	Exec        bool // template contains {...} expressions
	Colour      bool
	ShowNames   bool // prefix output with <file>:<line>:
}

// Totals aggregates what a run changed across all sources. Only files
// whose edits are still on disk at the end of the run are counted.
type Totals struct {
	Files    int // files with at least one surviving replacement or deletion
	Replaced int
	Deleted  int
}

// Scanner drives the pipeline over a list of sources.
type Scanner struct {
	cfg    Config
	eval   *subst.Evaluator
	hl     *highlight.Renderer
	dec    *decide.Engine
	rw     *rewrite.Rewriter
	out    io.Writer
	errOut io.Writer
	totals Totals
}

// New validates the template against the pattern and wires the pipeline.
// in supplies interactive commands; it is only read when cfg.Interactive.
func New(cfg Config, out, errOut io.Writer, in io.Reader) (*Scanner, error) {
	eval, err := subst.New(cfg.Pattern, cfg.Template, cfg.Exec)
	if err != nil {
		return nil, err
	}
	hl := highlight.New(cfg.Colour)

	var dec *decide.Engine
	if cfg.Interactive {
		dec = decide.New(in, out)
	}
	rw := rewrite.New(eval, hl, dec, out, errOut, rewrite.Options{
		Interactive: cfg.Interactive,
		Quiet:       cfg.Quiet,
		PrintAll:    cfg.PrintAll,
		Context:     cfg.Context,
		ShowNames:   cfg.ShowNames,
	})
	return &Scanner{cfg: cfg, eval: eval, hl: hl, dec: dec, rw: rw, out: out, errOut: errOut}, nil
}

// Run processes each file path in order. Per-file errors are reported
// and skipped; ErrQuit/ErrAborted from the rewrite engine terminate the
// run and are returned for the CLI to map to an exit.
func (s *Scanner) Run(paths []string) error {
	for i, path := range paths {
		if i > 0 {
			s.hl.NextFile()
		}
		if s.dec != nil {
			s.dec.ResetFile()
		}

		doc, err := document.Open(path)
		if err != nil {
			s.report(path, err)
			continue
		}
		err = s.source(doc)
		doc.Close()

		if errors.Is(err, rewrite.ErrQuit) || errors.Is(err, rewrite.ErrAborted) {
			return err
		}
		if err != nil {
			s.report(path, err)
		}
	}
	return nil
}

// Stream processes a single non-seekable input. Write mode is rejected
// by the CLI before it gets here; a stream cannot be rewritten in place.
func (s *Scanner) Stream(r io.Reader, name string) error {
	if s.cfg.Write {
		s.report(name, errors.New("cannot rewrite a stream in place"))
		return nil
	}
	doc := document.FromReader(r, name)
	err := s.source(doc)
	if errors.Is(err, rewrite.ErrQuit) || errors.Is(err, rewrite.ErrAborted) {
		return err
	}
	if err != nil {
		s.report(name, err)
	}
	return nil
}

// source dispatches one document to the display or write pipeline.
func (s *Scanner) source(doc *document.Document) error {
	if s.cfg.Write {
		return s.write(doc)
	}
	if s.cfg.Context > 0 {
		return s.displayContext(doc)
	}
	return s.display(doc)
}

// display streams a source, printing each matched line in substituted
// form. Quiet suppresses match output; print-all echoes the rest.
func (s *Scanner) display(doc *document.Document) error {
	for {
		text, ok, err := doc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		m, found := s.eval.Find(text, doc.Cursor())
		if !found {
			if s.cfg.PrintAll {
				s.printContextLine(doc.Name(), doc.Cursor(), text)
			}
			continue
		}
		if s.cfg.Quiet {
			continue
		}
		expansion, err := s.eval.Expand(m)
		if err != nil {
			return err
		}
		s.printMatch(doc.Name(), m, expansion)
	}
}

// displayContext buffers the whole source and prints matches with their
// surrounding context, merging overlapping windows and separating
// disjoint ones with "--" in the way grep does.
func (s *Scanner) displayContext(doc *document.Document) error {
	if err := doc.Buffer(); err != nil {
		return err
	}

	printed := make(map[int]bool)
	needSep := false
	for {
		text, ok, err := doc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		m, found := s.eval.Find(text, doc.Cursor())
		if !found {
			continue
		}
		if s.cfg.Quiet {
			continue
		}
		expansion, err := s.eval.Expand(m)
		if err != nil {
			return err
		}

		start := m.Num - s.cfg.Context
		if start < 0 {
			start = 0
		}
		end := m.Num + s.cfg.Context
		if end > doc.Len()-1 {
			end = doc.Len() - 1
		}

		if needSep && !printed[start] {
			fmt.Fprintln(s.out, "--")
		}
		for i := start; i <= end; i++ {
			if printed[i] {
				continue
			}
			printed[i] = true
			if i == m.Num {
				s.printMatch(doc.Name(), m, expansion)
			} else {
				s.printContextLine(doc.Name(), i, doc.Text(i))
			}
		}
		needSep = true
	}
}

// write streams until the first match, buffers, and hands the document
// to the rewrite engine. In interactive mode the first match is
// presented and decided here; the rewrite engine reuses that decision
// instead of prompting again.
func (s *Scanner) write(doc *document.Document) error {
	var m subst.Match
	found := false
	for !found {
		text, ok, err := doc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil // no match: file untouched, no backup
		}
		m, found = s.eval.Find(text, doc.Cursor())
	}

	if err := doc.Buffer(); err != nil {
		return err
	}

	var first *decide.Decision
	if s.cfg.Interactive {
		expansion, err := s.eval.Expand(m)
		if err != nil {
			return err
		}
		d := s.rw.Prompt(doc, m, m.Text[:m.Start]+expansion+m.Text[m.End:])
		switch d {
		case decide.SkipFile:
			return nil // declined before any mutation; no backup taken
		case decide.Abort:
			return rewrite.ErrAborted
		case decide.Quit:
			return rewrite.ErrQuit
		}
		first = &d
	}

	res, err := s.rw.File(doc, first)
	s.tally(res, err)
	s.record(doc.Name(), res, err)
	return err
}

// Totals returns the aggregated results of the write-mode rewrites
// performed so far.
func (s *Scanner) Totals() Totals { return s.totals }

// tally folds one file's result into the run totals. Aborted and failed
// rewrites were restored from backup, so their counts do not stand;
// quit keeps partial edits and they do.
func (s *Scanner) tally(res rewrite.Result, err error) {
	if err != nil && !errors.Is(err, rewrite.ErrQuit) {
		return
	}
	if res.Replaced == 0 && res.Deleted == 0 {
		return
	}
	s.totals.Files++
	s.totals.Replaced += res.Replaced
	s.totals.Deleted += res.Deleted
}

// record journals the outcome of a write-mode rewrite, best-effort.
func (s *Scanner) record(path string, res rewrite.Result, err error) {
	outcome := journal.OutcomeApplied
	switch {
	case errors.Is(err, rewrite.ErrQuit):
		outcome = journal.OutcomeQuit
	case err != nil:
		outcome = journal.OutcomeRestored
	case res.Skipped:
		outcome = journal.OutcomeSkipped
	}
	journal.Record(journal.Entry{
		Path:     path,
		Pattern:  s.cfg.Pattern.String(),
		Template: s.cfg.Template,
		Replaced: res.Replaced,
		Deleted:  res.Deleted,
		Outcome:  outcome,
	})
}

// printMatch writes one matched line in substituted, highlighted form.
func (s *Scanner) printMatch(name string, m subst.Match, expansion string) {
	line := s.hl.SubstitutedLine(m, s.eval.Segments(), s.cfg.Exec, expansion)
	if s.cfg.ShowNames {
		fmt.Fprintf(s.out, "%s%s\n", s.hl.Prefix(name, m.Num), line)
	} else {
		fmt.Fprintln(s.out, line)
	}
}

// printContextLine writes an unchanged line (context or print-all).
func (s *Scanner) printContextLine(name string, num int, text string) {
	if s.cfg.ShowNames {
		fmt.Fprintln(s.out, s.hl.ContextLine(name, num, text))
	} else {
		fmt.Fprintln(s.out, text)
	}
}

// report announces a per-source failure on the error channel.
func (s *Scanner) report(path string, err error) {
	fmt.Fprintf(s.errOut, "gres: %s: %v\n", path, err)
}
