package dump

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryEntry is one row recording that a dump was produced for a given
// library/version at a point in time, with the archive path it was written
// to.
type HistoryEntry struct {
	ID        int64
	Library   string
	Version   string
	DumpPath  string
	CreatedAt time.Time
}

// Store persists dump history (library, version, dump path, time) to a
// SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore wires a Store to db, creating the backing table if absent. db is
// expected to come from sql.Open("sqlite3", path).
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS dump_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	library TEXT NOT NULL,
	version TEXT NOT NULL,
	dump_path TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`)
	return err
}

// Record inserts a new history entry.
func (s *Store) Record(ctx context.Context, library, version, dumpPath string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dump_history (library, version, dump_path, created_at) VALUES (?, ?, ?, ?)`,
		library, version, dumpPath, at)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Latest returns the most recent history entry for library/version, or
// (nil, nil) if none exists.
func (s *Store) Latest(ctx context.Context, library, version string) (*HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, library, version, dump_path, created_at FROM dump_history
		 WHERE library = ? AND version = ? ORDER BY created_at DESC LIMIT 1`,
		library, version)

	var e HistoryEntry
	err := row.Scan(&e.ID, &e.Library, &e.Version, &e.DumpPath, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// History returns every recorded entry for library, most recent first.
func (s *Store) History(ctx context.Context, library string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, library, version, dump_path, created_at FROM dump_history
		 WHERE library = ? ORDER BY created_at DESC`, library)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Library, &e.Version, &e.DumpPath, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
