// Package journal provides best-effort persistent recording of in-place
// rewrites.
//
// Every write-mode file rewrite is recorded in a SQLite database
// (~/.gres/journal.db, overridable via GRES_JOURNAL) so "gres history"
// can answer what was changed, when, and whether it stuck. The project
// field is a hash of the working directory, enabling cross-project
// queries while preserving privacy.
//
// Design: journaling must never break the rewrite it describes. All
// failures here are reported to stderr at most and otherwise ignored.
package journal

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Entry is one recorded rewrite.
type Entry struct {
	At       int64  // unix timestamp
	Path     string // file rewritten
	Pattern  string
	Template string
	Replaced int
	Deleted  int
	Outcome  string // applied, restored, skipped, quit
	Digest   string // blake2b-128 of the file content after the rewrite
}

// Outcome values recorded per rewrite.
const (
	OutcomeApplied  = "applied"
	OutcomeRestored = "restored"
	OutcomeSkipped  = "skipped"
	OutcomeQuit     = "quit"
)

var (
	global *Journal
	mu     sync.Mutex
)

// Journal writes rewrite records to a SQLite database.
type Journal struct {
	db      *sql.DB
	project string
}

// Open initialises the global journal at path, or the default location
// when path is empty. A failure leaves the journal disabled; callers
// should warn and continue.
func Open(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return nil
	}

	if path == "" {
		path = dbPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	cwd, _ := os.Getwd()
	global = &Journal{db: db, project: hash(cwd)}
	return nil
}

// Close releases the global journal.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}

// Record stores an entry. No-op when the journal is not open. The file
// digest is computed here so callers stay oblivious to hashing.
func Record(e Entry) {
	mu.Lock()
	j := global
	mu.Unlock()
	if j == nil {
		return
	}

	if e.At == 0 {
		e.At = time.Now().Unix()
	}
	if e.Digest == "" {
		if b, err := os.ReadFile(e.Path); err == nil {
			e.Digest = hash(string(b))
		}
	}

	_, err := j.db.Exec(`
		INSERT INTO journal (at, project, path, pattern, template, replaced, deleted, outcome, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.At, j.project, e.Path, e.Pattern, e.Template, e.Replaced, e.Deleted, e.Outcome, e.Digest,
	)
	if err != nil {
		// Best-effort: the rewrite itself already succeeded or failed on
		// its own terms.
		fmt.Fprintf(os.Stderr, "gres: journal write failed: %v\n", err)
	}
}

// Recent returns up to limit entries for the current project, newest
// first. path, when non-empty, filters to one file.
func Recent(limit int, path string) ([]Entry, error) {
	mu.Lock()
	j := global
	mu.Unlock()
	if j == nil {
		return nil, fmt.Errorf("journal not open")
	}

	query := `SELECT at, path, pattern, template, replaced, deleted, outcome, digest
		FROM journal WHERE project = ?`
	args := []any{j.project}
	if path != "" {
		query += ` AND path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.At, &e.Path, &e.Pattern, &e.Template, &e.Replaced, &e.Deleted, &e.Outcome, &e.Digest); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// dbPath resolves the journal database location.
// Priority: GRES_JOURNAL env var > ~/.gres/journal.db.
func dbPath() string {
	if p := os.Getenv("GRES_JOURNAL"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gres", "journal.db")
	}
	return filepath.Join(home, ".gres", "journal.db")
}

// hash creates a short stable identifier from s.
func hash(s string) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			at       INTEGER NOT NULL,
			project  TEXT NOT NULL,
			path     TEXT NOT NULL,
			pattern  TEXT NOT NULL,
			template TEXT NOT NULL,
			replaced INTEGER NOT NULL,
			deleted  INTEGER NOT NULL,
			outcome  TEXT NOT NULL,
			digest   TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_journal_at ON journal(at);
		CREATE INDEX IF NOT EXISTS idx_journal_project ON journal(project);
	`)
	return err
}
