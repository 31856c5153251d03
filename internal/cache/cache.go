// Package cache provides a sqlite-backed persistent store for oracle
// verdicts, letting a long inference run reuse probe results across
// process restarts -- safe because the oracle is assumed to be a pure
// function of its candidate string for the lifetime of a guide-example set
// (see internal/oracle).
package cache

import (
	"database/sql"
	"fmt"

	"github.com/dekarrin/grammarinfer/internal/oracle"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed oracle.PersistentCache, namespaced by a run ID so
// that verdicts cached against one guide-example set are never mistakenly
// reused for another.
type Store struct {
	db    *sql.DB
	runID uuid.UUID
}

// Open opens (creating if necessary) a sqlite database at path and returns a
// Store namespaced under runID. Passing a fresh uuid.New() for runID gives a
// private namespace; passing a stable, deliberately-chosen UUID lets a
// caller deliberately share a cache namespace across runs of the same guide
// examples.
func Open(path string, runID uuid.UUID) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open oracle cache: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS oracle_verdicts (
			run_id    TEXT NOT NULL,
			candidate BLOB NOT NULL,
			verdict   INTEGER NOT NULL,
			PRIMARY KEY (run_id, candidate)
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init oracle cache schema: %w", err)
	}

	return &Store{db: db, runID: runID}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements oracle.PersistentCache.
func (s *Store) Get(candidate string) (oracle.Verdict, bool, error) {
	enc := rezi.EncBinary(candidate)

	var verdict int
	row := s.db.QueryRow(
		`SELECT verdict FROM oracle_verdicts WHERE run_id = ? AND candidate = ?`,
		s.runID.String(), enc,
	)
	if err := row.Scan(&verdict); err != nil {
		if err == sql.ErrNoRows {
			return oracle.Reject, false, nil
		}
		return oracle.Reject, false, err
	}

	return oracle.Verdict(verdict), true, nil
}

// Put implements oracle.PersistentCache.
func (s *Store) Put(candidate string, v oracle.Verdict) error {
	enc := rezi.EncBinary(candidate)

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO oracle_verdicts (run_id, candidate, verdict) VALUES (?, ?, ?)`,
		s.runID.String(), enc, int(v),
	)
	return err
}

var _ oracle.PersistentCache = (*Store)(nil)
