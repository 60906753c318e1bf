package highlight

import (
	"regexp"
	"strings"
	"testing"

	"github.com/jpl-au/gres/internal/subst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(t *testing.T, pattern, template, line string) (*subst.Evaluator, subst.Match) {
	t.Helper()
	e, err := subst.New(regexp.MustCompile(pattern), template, false)
	require.NoError(t, err)
	m, ok := e.Find(line, 0)
	require.True(t, ok)
	return e, m
}

func TestMatchLine_Disabled(t *testing.T) {
	r := New(false)
	_, m := match(t, `\d+`, `\0`, "abc123def")

	got := r.MatchLine(m)
	assert.Equal(t, "abc123def", got)
	assert.NotContains(t, got, "\x1b[", "disabled renderer must emit no control sequences")
}

func TestMatchLine_Enabled(t *testing.T) {
	r := New(true)
	_, m := match(t, `\d+`, `\0`, "abc123def")

	got := r.MatchLine(m)
	assert.Contains(t, got, "\x1b[")
	assert.True(t, strings.HasPrefix(got, "abc"), "unmatched prefix stays plain")
	assert.Contains(t, got, "123")
}

func TestSubstitutedLine_ContentIdenticalWhenDisabled(t *testing.T) {
	r := New(false)
	e, m := match(t, `(\w+)=(\w+)`, `\2=\1`, "key=value")

	expansion, err := e.Expand(m)
	require.NoError(t, err)
	got := r.SubstitutedLine(m, e.Segments(), false, expansion)
	assert.Equal(t, "value=key", got)
}

func TestSubstitutedLine_GroupColoursAreStable(t *testing.T) {
	r := New(true)
	e, m := match(t, `(\w+)=(\w+)`, `\2=\1`, "key=value")

	expansion, err := e.Expand(m)
	require.NoError(t, err)
	first := r.SubstitutedLine(m, e.Segments(), false, expansion)

	e2, m2 := match(t, `(\w+)=(\w+)`, `\2=\1`, "key=value")
	expansion2, err := e2.Expand(m2)
	require.NoError(t, err)
	second := r.SubstitutedLine(m2, e2.Segments(), false, expansion2)

	assert.Equal(t, first, second, "same group index must get the same colour within a run")
}

func TestPrefix_RotatesPerFile(t *testing.T) {
	r := New(true)
	a := r.Prefix("a.txt", 0)
	r.NextFile()
	b := r.Prefix("a.txt", 0)

	assert.NotEqual(t, a, b, "prefix colour should rotate between files")
}

func TestPrefix_Plain(t *testing.T) {
	r := New(false)
	assert.Equal(t, "a.txt:5:", r.Prefix("a.txt", 4))
	assert.Equal(t, "5:", r.Prefix("", 4))
	assert.Equal(t, "a.txt-5-ctx", r.ContextLine("a.txt", 4, "ctx"))
}
