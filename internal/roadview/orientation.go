package roadview

import (
	"sync"

	"github.com/plantview/roadview-backend/internal/models"
)

// OrientationStore manages per-scene camera headings and sphere
// corrections. Initial heading and sphere correction are independent fields
// on the same record; every write is a read-modify-write so setting one
// never clobbers the other.
type OrientationStore struct {
	mu       sync.RWMutex
	headings map[string]models.HeadingData
}

// NewOrientationStore creates an empty OrientationStore.
func NewOrientationStore() *OrientationStore {
	return &OrientationStore{headings: make(map[string]models.HeadingData)}
}

// Get returns the heading record for a scene, falling back to the zero
// heading (yaw 0, pitch 0, no correction) when none is stored.
func (s *OrientationStore) Get(sceneID string) models.HeadingData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headings[sceneID]
}

// SetHeading stores the initial view direction for a scene, preserving any
// sphere correction already on the record.
func (s *OrientationStore) SetHeading(sceneID string, yaw, pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.headings[sceneID]
	h.Yaw = yaw
	h.Pitch = pitch
	s.headings[sceneID] = h
}

// SetCorrection stores the sphere pitch/roll correction for a scene,
// preserving the initial view direction already on the record.
func (s *OrientationStore) SetCorrection(sceneID string, spherePitch, sphereRoll float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.headings[sceneID]
	h.SpherePitch = &spherePitch
	h.SphereRoll = &sphereRoll
	s.headings[sceneID] = h
}

// Snapshot copies the heading map for persistence.
func (s *OrientationStore) Snapshot() map[string]models.HeadingData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.HeadingData, len(s.headings))
	for sceneID, h := range s.headings {
		out[sceneID] = h
	}
	return out
}

// Replace swaps the entire heading map.
func (s *OrientationStore) Replace(headings map[string]models.HeadingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headings = make(map[string]models.HeadingData, len(headings))
	for sceneID, h := range headings {
		s.headings[sceneID] = h
	}
}
