// Package subst evaluates substitution templates against regex matches.
//
// A template mixes literal text with backreferences: \0 expands to the
// whole match, \1..\9 to capture groups. Templates are parsed and
// validated once at startup so a bad backreference is a configuration
// error, not a surprise halfway through a file.
//
// In exec mode, backreference expansion happens first and then every
// non-escaped {...} span is evaluated as an expression (expr-lang) in an
// environment exposing the current match. This is what turns
// "{int(\0)+5}" into arithmetic on the matched text.
package subst

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

var (
	// ErrBadBackref is returned when a template references a capture group
	// the pattern does not define.
	ErrBadBackref = errors.New("backreference out of range")
	// ErrEval is returned when an expression span fails to evaluate.
	ErrEval = errors.New("expression evaluation failed")
)

// Match describes a single pattern match on one line.
type Match struct {
	Text   string   // full line content, no trailing newline
	Num    int      // 0-based line index within the source
	Start  int      // byte offset of the match within Text
	End    int      // byte offset one past the match
	Groups []string // Groups[0] is the whole match; non-participating groups are ""
}

// Segment is one piece of a parsed template: either literal text or a
// backreference. The highlighter walks segments to colour group output.
type Segment struct {
	Text string // literal text (valid when Ref < 0)
	Ref  int    // backreference index, or -1 for literal
}

// Evaluator applies a pattern and computes replacement text per match.
type Evaluator struct {
	re       *regexp.Regexp
	segments []Segment
	exec     bool
}

// New parses template and validates its backreferences against the
// pattern's group count. exec enables {...} expression evaluation.
func New(re *regexp.Regexp, template string, exec bool) (*Evaluator, error) {
	segs, err := parse(template, re.NumSubexp())
	if err != nil {
		return nil, err
	}
	return &Evaluator{re: re, segments: segs, exec: exec}, nil
}

// Segments returns the parsed template segments.
func (e *Evaluator) Segments() []Segment { return e.segments }

// Exec reports whether expression mode is enabled.
func (e *Evaluator) Exec() bool { return e.exec }

// Find applies the pattern to a line and returns the first match.
// line must not include a trailing newline.
func (e *Evaluator) Find(line string, num int) (Match, bool) {
	loc := e.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return Match{}, false
	}
	groups := make([]string, e.re.NumSubexp()+1)
	for i := range groups {
		start, end := loc[2*i], loc[2*i+1]
		if start >= 0 {
			groups[i] = line[start:end]
		}
	}
	return Match{
		Text:   line,
		Num:    num,
		Start:  loc[0],
		End:    loc[1],
		Groups: groups,
	}, true
}

// Expand resolves the template against a match: backreference expansion,
// then expression spans when exec mode is on. The result is the
// replacement for the matched span only, not the whole line.
func (e *Evaluator) Expand(m Match) (string, error) {
	var b strings.Builder
	for _, s := range e.segments {
		if s.Ref < 0 {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(m.Groups[s.Ref])
	}
	if !e.exec {
		return b.String(), nil
	}
	return evalSpans(b.String(), env(m))
}

// Replace computes the full replacement line for a match: the unmatched
// prefix and suffix survive, the matched span becomes the expansion.
// An empty result means the caller should treat the line as deleted.
func (e *Evaluator) Replace(m Match) (string, error) {
	expansion, err := e.Expand(m)
	if err != nil {
		return "", err
	}
	return m.Text[:m.Start] + expansion + m.Text[m.End:], nil
}

// parse splits a template into literal and backreference segments.
// groups is the pattern's capture group count; \0 is always valid.
func parse(template string, groups int) ([]Segment, error) {
	var segs []Segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String(), Ref: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' || i+1 >= len(template) {
			lit.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next >= '0' && next <= '9':
			ref := int(next - '0')
			if ref > groups {
				return nil, fmt.Errorf("%w: \\%d (pattern has %d groups)", ErrBadBackref, ref, groups)
			}
			flush()
			segs = append(segs, Segment{Ref: ref})
			i++
		case next == '\\':
			lit.WriteByte('\\')
			i++
		default:
			// Keep unknown escapes verbatim. \{ and \} must survive
			// parsing so expression span detection can honour them.
			lit.WriteByte('\\')
			lit.WriteByte(next)
			i++
		}
	}
	flush()
	return segs, nil
}

// env builds the expression environment exposing the current match.
func env(m Match) map[string]any {
	return map[string]any{
		"match":  m.Groups[0],
		"groups": m.Groups,
		"line":   m.Text,
		"lineno": m.Num + 1,
	}
}

// evalSpans replaces each non-escaped {...} span with the string form of
// its evaluation result. Matching is non-greedy: a span closes at the
// nearest unescaped brace. An unterminated { is literal text, but an
// evaluation failure aborts the whole substitution.
func evalSpans(s string, environment map[string]any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c == '\\' && i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '}') {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := findClose(s, i+1)
		if end < 0 {
			b.WriteByte(c)
			i++
			continue
		}
		out, err := expr.Eval(s[i+1:end], environment)
		if err != nil {
			return "", fmt.Errorf("%w: {%s}: %v", ErrEval, s[i+1:end], err)
		}
		fmt.Fprint(&b, out)
		i = end + 1
	}
	return b.String(), nil
}

// findClose returns the index of the nearest unescaped '}' at or after
// start, or -1 if none exists.
func findClose(s string, start int) int {
	for i := start; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '}' {
			return i
		}
	}
	return -1
}
