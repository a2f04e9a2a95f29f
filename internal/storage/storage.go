package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"statuswatch/internal/models"
)

// SnapshotStore persists the status history ring to disk so a restart keeps
// its uptime window. The in-memory ring stays authoritative; this is a plain
// snapshot, written whole and replaced atomically.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore ensures the data directory exists.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

// Load reads the persisted samples. A missing or empty file is not an error.
func (s *SnapshotStore) Load() ([]models.StatusSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var samples []models.StatusSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse history snapshot: %w", err)
	}
	return samples, nil
}

// Save replaces the snapshot with the given samples via temp file + rename.
func (s *SnapshotStore) Save(samples []models.StatusSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history snapshot: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
