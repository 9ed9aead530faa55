// Package memory implements the baseline snapshot tier in process memory.
// It backs tests and deployments without a valkey instance; the interface
// matches the valkey tier.
package memory

import (
	"context"
	"sync"

	"github.com/plantview/roadview-backend/internal/models"
)

// BaselineStore holds the deploy-time settings document in memory.
type BaselineStore struct {
	mu  sync.RWMutex
	doc *models.SettingsDocument
}

// NewBaselineStore creates an empty BaselineStore.
func NewBaselineStore() *BaselineStore {
	return &BaselineStore{}
}

// Load returns the stored document, or (nil, nil) when none has ever been
// saved; absence of a baseline is not an error.
func (s *BaselineStore) Load(ctx context.Context) (*models.SettingsDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, nil
	}
	return s.doc.Clone(), nil
}

// Save replaces the stored document.
func (s *BaselineStore) Save(ctx context.Context, doc *models.SettingsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}
