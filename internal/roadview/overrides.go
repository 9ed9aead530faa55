package roadview

import (
	"sync"

	"github.com/plantview/roadview-backend/internal/models"
)

// OverrideStore manages per-scene display overrides (label, area, hidden,
// excludeFromPath) keyed by scene id.
type OverrideStore struct {
	mu        sync.RWMutex
	overrides map[string]models.SceneOverride
}

// NewOverrideStore creates an empty OverrideStore.
func NewOverrideStore() *OverrideStore {
	return &OverrideStore{overrides: make(map[string]models.SceneOverride)}
}

// Get returns the override for a scene, if any.
func (s *OverrideStore) Get(sceneID string) (models.SceneOverride, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ov, ok := s.overrides[sceneID]
	return ov, ok
}

// SetDisplay sets the label and area overrides for a scene. Empty strings
// clear the override back to the catalog default. Hidden and path flags
// are untouched.
func (s *OverrideStore) SetDisplay(sceneID, label, area string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ov := s.overrides[sceneID]
	ov.Label = label
	ov.Area = area
	s.put(sceneID, ov)
}

// SetHidden flips the soft-delete flag for a scene.
func (s *OverrideStore) SetHidden(sceneID string, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ov := s.overrides[sceneID]
	ov.Hidden = hidden
	s.put(sceneID, ov)
}

// SetExcludeFromPath marks or unmarks a scene as a branch.
func (s *OverrideStore) SetExcludeFromPath(sceneID string, exclude bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ov := s.overrides[sceneID]
	ov.ExcludeFromPath = exclude
	s.put(sceneID, ov)
}

// ApplyLabels assigns labels to several scenes in one locked update, so a
// batch relabel is all-or-nothing with respect to readers.
func (s *OverrideStore) ApplyLabels(labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sceneID, label := range labels {
		ov := s.overrides[sceneID]
		ov.Label = label
		s.put(sceneID, ov)
	}
}

// put stores or drops an override depending on whether it still carries
// information. Callers must hold the write lock.
func (s *OverrideStore) put(sceneID string, ov models.SceneOverride) {
	if ov.IsZero() {
		delete(s.overrides, sceneID)
		return
	}
	s.overrides[sceneID] = ov
}

// Snapshot copies the override map for persistence or derivation.
func (s *OverrideStore) Snapshot() map[string]models.SceneOverride {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.SceneOverride, len(s.overrides))
	for sceneID, ov := range s.overrides {
		out[sceneID] = ov
	}
	return out
}

// Replace swaps the entire override map.
func (s *OverrideStore) Replace(overrides map[string]models.SceneOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]models.SceneOverride, len(overrides))
	for sceneID, ov := range overrides {
		if !ov.IsZero() {
			s.overrides[sceneID] = ov
		}
	}
}
