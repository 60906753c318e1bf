// Package diff formats old/new line previews for interactive prompts.
//
// The rewrite prompt shows the operator what a substitution would do
// before asking for a decision. diffmatchpatch's semantic cleanup keeps
// the changed region readable when only part of a long line differs.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview returns a two-line "- old / + new" preview of a pending
// substitution. With colour, the removed and inserted spans within each
// line are emphasised; without it, output is plain text.
func Preview(oldLine, newLine string, colour bool) string {
	if !colour {
		return "- " + oldLine + "\n+ " + newLine + "\n"
	}

	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(oldLine, newLine, false)
	d = dmp.DiffCleanupSemantic(d)

	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var removed, inserted strings.Builder
	removed.WriteString(red + "- " + reset)
	inserted.WriteString(green + "+ " + reset)
	for _, part := range d {
		switch part.Type {
		case diffmatchpatch.DiffDelete:
			removed.WriteString(red + part.Text + reset)
		case diffmatchpatch.DiffInsert:
			inserted.WriteString(green + part.Text + reset)
		case diffmatchpatch.DiffEqual:
			removed.WriteString(part.Text)
			inserted.WriteString(part.Text)
		}
	}
	return removed.String() + "\n" + inserted.String() + "\n"
}
