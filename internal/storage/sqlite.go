// Package storage provides a SQLite-backed library of named maps.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/blockedit/internal/mapfile"
)

// ErrNotFound is returned when a map name is not in the library.
var ErrNotFound = errors.New("storage: map not found")

// Store manages the SQLite database connection for the map library.
type Store struct {
	db *sql.DB
}

// MapEntry describes a stored map without decoding its blocks.
type MapEntry struct {
	Name      string
	Width     int
	Height    int
	Blocks    int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS maps (
			name TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			blocks INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_maps_updated ON maps(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMap stores doc under its name, replacing any previous version.
func (s *Store) SaveMap(doc mapfile.Document) error {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return errors.New("storage: map name is empty")
	}
	doc.Name = name

	data, err := mapfile.Encode(doc)
	if err != nil {
		return fmt.Errorf("storage: cannot save map %q: %w", name, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO maps (name, width, height, blocks, data, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   width = excluded.width,
		   height = excluded.height,
		   blocks = excluded.blocks,
		   data = excluded.data,
		   updated_at = CURRENT_TIMESTAMP`,
		name, doc.Map.W(), doc.Map.H(), doc.Map.Count(), string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save map %q: %w", name, err)
	}
	return nil
}

// LoadMap decodes the stored map called name at blockPixelSize.
// Returns ErrNotFound if no such map exists.
func (s *Store) LoadMap(name string, blockPixelSize int) (mapfile.Document, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM maps WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return mapfile.Document{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return mapfile.Document{}, fmt.Errorf("storage: cannot load map %q: %w", name, err)
	}

	doc, err := mapfile.Decode([]byte(data), blockPixelSize)
	if err != nil {
		return mapfile.Document{}, fmt.Errorf("storage: cannot load map %q: %w", name, err)
	}
	doc.Name = name
	return doc, nil
}

// ListMaps returns every stored map, most recently updated first.
func (s *Store) ListMaps() ([]MapEntry, error) {
	rows, err := s.db.Query(
		`SELECT name, width, height, blocks, updated_at
		 FROM maps
		 ORDER BY updated_at DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query maps: %w", err)
	}
	defer rows.Close()

	var entries []MapEntry
	for rows.Next() {
		var e MapEntry
		var updatedAt any
		if err := rows.Scan(&e.Name, &e.Width, &e.Height, &e.Blocks, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// DeleteMap removes a stored map. Returns ErrNotFound if it did not exist.
func (s *Store) DeleteMap(name string) error {
	res, err := s.db.Exec("DELETE FROM maps WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete map %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete map %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// MapExists reports whether a map called name is stored.
func (s *Store) MapExists(name string) (bool, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM maps WHERE name = ?", name).Scan(&n); err != nil {
		return false, fmt.Errorf("storage: cannot query map %q: %w", name, err)
	}
	return n > 0, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
