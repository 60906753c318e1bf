// Package document models one input source as an ordered sequence of
// lines with a cursor.
//
// A document starts in streaming mode: lines are pulled from the
// underlying reader one at a time with no look-ahead. Context display,
// interactive prompting, and in-place rewriting all need random access,
// so they call Buffer to materialise the remaining lines. The transition
// is one-directional; a stream (stdin, pipe) is simply read to the end
// once and then behaves like a buffered file.
//
// Invariant during rewrite: lines[0:cursor] is what has already been
// written out, lines[cursor:] is the unprocessed tail. Deleting the
// current line must remove it and step the cursor back in one operation
// (DeleteCurrentAndRewind) so the following line is not skipped.
package document

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned when a source contains NUL bytes or invalid
// UTF-8. Such sources are reported and skipped, never rewritten.
var ErrNotText = errors.New("binary or non-text content")

// Document is an ordered sequence of lines for exactly one source.
// Lines always end in \n when non-empty; a missing final newline is
// normalised on read.
type Document struct {
	name     string
	r        *bufio.Reader
	closer   io.Closer
	lines    []string
	cur      int  // index of the line currently being examined; -1 before first Next
	eof      bool // underlying reader exhausted
	buffered bool // Buffer has been called
}

// Open opens a file in streaming mode. The caller must Close.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Document{name: path, r: bufio.NewReader(f), closer: f, cur: -1}, nil
}

// FromReader wraps a stream (stdin, pipe) in streaming mode. name is
// used for display prefixes and diagnostics.
func FromReader(r io.Reader, name string) *Document {
	return &Document{name: name, r: bufio.NewReader(r), cur: -1}
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Name returns the source name (path, or a label for streams).
func (d *Document) Name() string { return d.name }

// Buffered reports whether the document has been fully materialised.
func (d *Document) Buffered() bool { return d.buffered }

// Cursor returns the index of the line currently being examined.
func (d *Document) Cursor() int { return d.cur }

// Len returns the number of lines read so far. After Buffer it is the
// total line count.
func (d *Document) Len() int { return len(d.lines) }

// Next advances the cursor and returns the line content without its
// trailing newline. ok is false once the source is exhausted.
func (d *Document) Next() (text string, ok bool, err error) {
	if d.cur+1 < len(d.lines) {
		d.cur++
		return trim(d.lines[d.cur]), true, nil
	}
	if d.eof {
		return "", false, nil
	}
	line, ok, err := d.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	d.lines = append(d.lines, line)
	d.cur = len(d.lines) - 1
	return trim(line), true, nil
}

// Buffer materialises all remaining lines. Safe to call more than once.
func (d *Document) Buffer() error {
	for !d.eof {
		line, ok, err := d.readLine()
		if err != nil {
			return err
		}
		if ok {
			d.lines = append(d.lines, line)
		}
	}
	d.buffered = true
	return nil
}

// Line returns line i including its trailing newline.
func (d *Document) Line(i int) string { return d.lines[i] }

// Text returns line i without its trailing newline.
func (d *Document) Text(i int) string { return trim(d.lines[i]) }

// SetText replaces line i with text, restoring newline normalisation.
// Used by the rewrite engine so look-ahead and context rendering reflect
// already-applied substitutions.
func (d *Document) SetText(i int, text string) {
	d.lines[i] = text + "\n"
}

// DeleteCurrentAndRewind removes the line at the cursor and steps the
// cursor back one, atomically, so the next Next call yields the line
// that shifted into the removed slot.
func (d *Document) DeleteCurrentAndRewind() {
	d.lines = append(d.lines[:d.cur], d.lines[d.cur+1:]...)
	d.cur--
}

// readLine pulls one line from the reader, normalising the trailing
// newline and rejecting non-text content.
func (d *Document) readLine() (string, bool, error) {
	s, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if err == io.EOF {
		d.eof = true
		if s == "" {
			return "", false, nil
		}
	}
	if strings.IndexByte(s, 0) >= 0 || !utf8.ValidString(s) {
		return "", false, ErrNotText
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, true, nil
}

func trim(line string) string {
	return strings.TrimSuffix(line, "\n")
}
