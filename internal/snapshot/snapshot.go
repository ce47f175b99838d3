// Package snapshot persists a backup copy of the task collection so the
// store can fall back to last-known data when the server is unreachable.
// Persistence is best-effort: failures are logged by the caller and never
// surfaced to the user.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"daylist/internal/task"
)

// Store reads and writes the serialized task collection at a fixed path.
type Store struct {
	path string
}

const defaultSnapshotPath = "~/.local/share/daylist/tasks.json"

// DefaultPath returns the default snapshot file path.
func DefaultPath() string {
	return defaultSnapshotPath
}

// New builds a Store for the given path; empty uses the default.
func New(path string) *Store {
	resolved, err := resolvePath(path)
	if err != nil {
		resolved = path
	}
	return &Store{path: resolved}
}

// Save overwrites the snapshot with the given collection, creating
// directories as needed.
func (s *Store) Save(c task.Collection) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	encoded, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, encoded, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted collection. A missing or unreadable snapshot
// yields an empty collection; corruption is logged and treated the same.
func (s *Store) Load() task.Collection {
	encoded, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("read snapshot: %v", err)
		}
		return task.Collection{}
	}

	var c task.Collection
	if err := json.Unmarshal(encoded, &c); err != nil {
		log.Printf("parse snapshot: %v", err)
		return task.Collection{}
	}
	if c == nil {
		return task.Collection{}
	}
	return c
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSnapshotPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
