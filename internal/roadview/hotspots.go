package roadview

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/plantview/roadview-backend/internal/models"
)

// HotspotStore manages the per-scene hotspot lists in memory.
type HotspotStore struct {
	mu       sync.RWMutex
	hotspots map[string][]models.Hotspot // sceneID -> hotspots
}

// NewHotspotStore creates an empty HotspotStore.
func NewHotspotStore() *HotspotStore {
	return &HotspotStore{hotspots: make(map[string][]models.Hotspot)}
}

// Add validates and stores a new hotspot on its owning scene, assigning a
// unique id. Returns the stored hotspot.
func (s *HotspotStore) Add(sceneID string, yaw, pitch float64, typ models.HotspotType, label, targetSceneID string) (models.Hotspot, error) {
	hs := models.Hotspot{
		ID:            fmt.Sprintf("hs_%s", uuid.NewString()),
		Label:         label,
		Yaw:           yaw,
		Pitch:         pitch,
		Type:          typ,
		SceneID:       sceneID,
		TargetSceneID: targetSceneID,
	}
	if err := hs.Validate(); err != nil {
		return models.Hotspot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotspots[sceneID] = append(s.hotspots[sceneID], hs)
	log.Printf("[Hotspots] Added %s hotspot %q on scene %s (yaw=%.1f pitch=%.1f)", hs.Type, hs.Label, sceneID, yaw, pitch)
	return hs, nil
}

// Remove deletes a hotspot by id from a scene. Returns false if the
// hotspot was not found.
func (s *HotspotStore) Remove(sceneID, hotspotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.hotspots[sceneID]
	for i, hs := range list {
		if hs.ID == hotspotID {
			s.hotspots[sceneID] = append(list[:i], list[i+1:]...)
			log.Printf("[Hotspots] Removed hotspot %q from scene %s", hs.Label, sceneID)
			return true
		}
	}
	return false
}

// For returns the hotspots belonging to a scene. The returned slice is a
// copy and safe to retain.
func (s *HotspotStore) For(sceneID string) []models.Hotspot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Hotspot(nil), s.hotspots[sceneID]...)
}

// Count returns the total number of hotspots across all scenes.
func (s *HotspotStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, list := range s.hotspots {
		n += len(list)
	}
	return n
}

// Snapshot copies the full hotspot map for persistence.
func (s *HotspotStore) Snapshot() map[string][]models.Hotspot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]models.Hotspot, len(s.hotspots))
	for sceneID, list := range s.hotspots {
		if len(list) == 0 {
			continue
		}
		out[sceneID] = append([]models.Hotspot(nil), list...)
	}
	return out
}

// Replace swaps the entire hotspot map, used when loading or importing a
// settings document.
func (s *HotspotStore) Replace(hotspots map[string][]models.Hotspot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotspots = make(map[string][]models.Hotspot, len(hotspots))
	for sceneID, list := range hotspots {
		s.hotspots[sceneID] = append([]models.Hotspot(nil), list...)
	}
}
