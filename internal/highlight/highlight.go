// Package highlight renders matched and substituted lines for terminal
// display.
//
// Colour assignment is deterministic for a run: backreference index n is
// always palette[n mod 5], so \1 stays the same colour across every match
// and file. The matched span itself is bold. File/line prefixes rotate
// through the same palette per file, which makes multi-file output easier
// to scan. When colour is off the output is byte-identical content with
// no control sequences.
//
// Rendering never touches document state; everything here is pure
// formatting.
package highlight

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jpl-au/gres/internal/subst"
)

// palette is the fixed 5-colour cycle for backreference groups and
// per-file prefix rotation.
var palette = []color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
}

// Renderer formats lines for display. The zero value is not usable;
// construct with New.
type Renderer struct {
	enabled bool
	groups  []*color.Color // per backreference index, bold + palette colour
	prefix  []*color.Color // per-file rotation colours
	match   *color.Color   // whole match / substitution style
	file    int            // current file index for prefix rotation
}

// New returns a renderer. enabled=false produces plain text regardless of
// whether the output is a terminal; the decision is the caller's.
func New(enabled bool) *Renderer {
	r := &Renderer{enabled: enabled, match: color.New(color.Bold, color.FgHiRed)}
	for _, attr := range palette {
		r.groups = append(r.groups, color.New(color.Bold, attr))
		r.prefix = append(r.prefix, color.New(attr))
	}
	// fatih/color auto-disables on non-terminals via a global; force each
	// colour so behaviour follows run configuration, not process state.
	all := append(append([]*color.Color{r.match}, r.groups...), r.prefix...)
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Enabled reports whether colour output is on.
func (r *Renderer) Enabled() bool { return r.enabled }

// NextFile advances the per-file prefix rotation.
func (r *Renderer) NextFile() { r.file++ }

// Prefix formats a "<file>:<line>:" location prefix. num is 0-based and
// rendered 1-based. An empty name yields just the line number prefix.
func (r *Renderer) Prefix(name string, num int) string {
	c := r.prefix[r.file%len(r.prefix)]
	if name == "" {
		return c.Sprintf("%d:", num+1)
	}
	return c.Sprintf("%s:%d:", name, num+1)
}

// MatchLine renders the original line with the matched span emphasised.
func (r *Renderer) MatchLine(m subst.Match) string {
	if !r.enabled {
		return m.Text
	}
	return m.Text[:m.Start] + r.match.Sprint(m.Text[m.Start:m.End]) + m.Text[m.End:]
}

// SubstitutedLine renders the line with the matched span replaced by the
// expansion. For static templates, segments originating from a
// backreference keep that group's palette colour; in exec mode the
// evaluated text has no stable group provenance, so the whole expansion
// is rendered in the match style.
func (r *Renderer) SubstitutedLine(m subst.Match, segs []subst.Segment, exec bool, expansion string) string {
	if !r.enabled {
		return m.Text[:m.Start] + expansion + m.Text[m.End:]
	}
	var span string
	if exec {
		span = r.match.Sprint(expansion)
	} else {
		span = r.expandColoured(m, segs)
	}
	return m.Text[:m.Start] + span + m.Text[m.End:]
}

// expandColoured rebuilds the static expansion segment by segment so each
// backreference keeps its assigned colour.
func (r *Renderer) expandColoured(m subst.Match, segs []subst.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Ref < 0 {
			b.WriteString(r.match.Sprint(s.Text))
			continue
		}
		b.WriteString(r.groups[s.Ref%len(r.groups)].Sprint(m.Groups[s.Ref]))
	}
	return b.String()
}

// ContextLine renders an unchanged context line with its location prefix.
// Context lines use "-" separators, matching grep's convention.
func (r *Renderer) ContextLine(name string, num int, text string) string {
	c := r.prefix[r.file%len(r.prefix)]
	if name == "" {
		return fmt.Sprintf("%s%s", c.Sprintf("%d-", num+1), text)
	}
	return fmt.Sprintf("%s%s", c.Sprintf("%s-%d-", name, num+1), text)
}
