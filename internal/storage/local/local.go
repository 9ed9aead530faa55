// Package local implements the local snapshot tier: a JSON file on disk
// holding the user's unsynced edits. It plays the role the browser's
// localStorage plays in a pure client deployment: always written
// synchronously on save, read before the baseline is consulted.
package local

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/plantview/roadview-backend/internal/models"
)

// Store reads and writes the local settings snapshot file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and parses the local snapshot. A missing file is not an
// error: it returns (nil, nil), meaning "no local edits yet". A corrupt
// file is reported so the caller can fall back to the baseline tier.
func (s *Store) Load() (*models.SettingsDocument, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local snapshot: %w", err)
	}

	doc, err := models.ParseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local snapshot: %w", err)
	}
	return doc, nil
}

// Save writes the snapshot synchronously, creating the directory if
// needed.
func (s *Store) Save(doc *models.SettingsDocument) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal local snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write local snapshot: %w", err)
	}
	log.Printf("[Local] Saved snapshot to %s (%d bytes)", s.path, len(data))
	return nil
}
