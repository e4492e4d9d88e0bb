package mapcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the mappings in a SQLite database. Each operation
// is one statement; the database serializes concurrent writers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("mapcache: sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS scene_items (
		scene_id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		resolved_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create scene_items table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Lookup(sceneID string) (string, bool) {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" {
		return "", false
	}
	var itemID string
	err := s.db.QueryRow(
		"SELECT item_id FROM scene_items WHERE scene_id = ?", sceneID,
	).Scan(&itemID)
	if err != nil {
		return "", false
	}
	return itemID, true
}

func (s *SQLiteStore) Put(sceneID, itemID string) error {
	sceneID = strings.TrimSpace(sceneID)
	itemID = strings.TrimSpace(itemID)
	if sceneID == "" || itemID == "" {
		return errors.New("mapcache: scene id and item id required")
	}
	_, err := s.db.Exec(
		`INSERT INTO scene_items (scene_id, item_id, resolved_at) VALUES (?, ?, ?)
		 ON CONFLICT(scene_id) DO UPDATE SET item_id = excluded.item_id, resolved_at = excluded.resolved_at`,
		sceneID, itemID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("persist mapping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(sceneID string) error {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" {
		return nil
	}
	if _, err := s.db.Exec("DELETE FROM scene_items WHERE scene_id = ?", sceneID); err != nil {
		return fmt.Errorf("remove mapping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List() ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT scene_id, item_id, resolved_at FROM scene_items ORDER BY resolved_at DESC, scene_id")
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.SceneID, &entry.ItemID, &entry.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
