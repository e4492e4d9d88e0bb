package mapcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"stashsync/internal/logging"
)

// FileStore keeps the mappings in one JSON file, loaded at open and
// rewritten whole on every change. An empty path makes every operation
// a no-op, which is how a disabled cache is represented.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewFileStore opens a file-backed store. A missing or empty file
// starts the store empty; a corrupt file is logged and ignored.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	logger = logging.NewComponentLogger(logger, "mapcache")

	s := &FileStore{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}
	if path == "" {
		return s
	}
	if err := s.load(); err != nil {
		logger.Warn("failed to load mapping cache, starting empty",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
	}
	return s
}

func (s *FileStore) Lookup(sceneID string) (string, bool) {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" || s.path == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, found := s.entries[sceneID]
	return entry.ItemID, found
}

func (s *FileStore) Put(sceneID, itemID string) error {
	sceneID = strings.TrimSpace(sceneID)
	itemID = strings.TrimSpace(itemID)
	if sceneID == "" || itemID == "" {
		return errors.New("mapcache: scene id and item id required")
	}
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sceneID] = Entry{SceneID: sceneID, ItemID: itemID, ResolvedAt: time.Now().UTC()}
	return s.save()
}

func (s *FileStore) Remove(sceneID string) error {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" || s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.entries[sceneID]; !found {
		return nil
	}
	delete(s.entries, sceneID)
	return s.save()
}

func (s *FileStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ResolvedAt.After(entries[j].ResolvedAt)
	})
	return entries, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	s.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.SceneID) != "" {
			s.entries[entry.SceneID] = entry
		}
	}
	return nil
}

// save rewrites the whole file atomically. Callers hold the write lock.
func (s *FileStore) save() error {
	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SceneID < entries[j].SceneID
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
