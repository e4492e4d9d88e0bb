package mapcache

import (
	"fmt"
	"log/slog"
	"time"

	"stashsync/internal/config"
)

// Entry is one remembered mapping.
type Entry struct {
	SceneID    string    `json:"scene_id"`
	ItemID     string    `json:"item_id"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Store persists scene-to-item mappings.
type Store interface {
	// Lookup returns the remembered item id for a scene, if any.
	Lookup(sceneID string) (string, bool)
	// Put remembers a mapping, replacing any previous one.
	Put(sceneID, itemID string) error
	// Remove forgets a mapping. Removing an unknown scene is not an
	// error.
	Remove(sceneID string) error
	// List returns all entries, newest first.
	List() ([]Entry, error)
	Close() error
}

// Open constructs the configured backend. A disabled cache yields a
// store whose lookups always miss and whose writes are no-ops.
func Open(cfg config.Cache, logger *slog.Logger) (Store, error) {
	if !cfg.Enabled {
		return NewFileStore("", logger), nil
	}
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "file":
		return NewFileStore(cfg.Path, logger), nil
	default:
		return nil, fmt.Errorf("mapcache: unknown backend %q", cfg.Backend)
	}
}
