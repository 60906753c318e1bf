package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTemp points the global journal at a temp database for one test.
func openTemp(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(filepath.Join(t.TempDir(), "journal.db")))
	t.Cleanup(Close)
}

func TestRecordAndRecent(t *testing.T) {
	openTemp(t)

	target := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("baz\n"), 0o644))

	Record(Entry{Path: target, Pattern: "foo", Template: "baz", Replaced: 1, Outcome: OutcomeApplied})
	Record(Entry{Path: "other.txt", Pattern: "x", Template: "", Deleted: 2, Outcome: OutcomeRestored})

	entries, err := Recent(10, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "other.txt", entries[0].Path)
	assert.Equal(t, OutcomeRestored, entries[0].Outcome)
	assert.Equal(t, 2, entries[0].Deleted)

	assert.Equal(t, target, entries[1].Path)
	assert.Equal(t, 1, entries[1].Replaced)
	assert.NotEmpty(t, entries[1].Digest, "digest computed from file content")
}

func TestRecent_FiltersByPath(t *testing.T) {
	openTemp(t)

	Record(Entry{Path: "a.txt", Pattern: "p", Outcome: OutcomeApplied})
	Record(Entry{Path: "b.txt", Pattern: "p", Outcome: OutcomeApplied})

	entries, err := Recent(10, "a.txt")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Path)
}

func TestRecord_NoOpWhenClosed(t *testing.T) {
	// Must not panic or create files.
	Record(Entry{Path: "x.txt", Outcome: OutcomeApplied})
}

func TestRecent_ErrorsWhenClosed(t *testing.T) {
	_, err := Recent(10, "")
	assert.Error(t, err)
}
