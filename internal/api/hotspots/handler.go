package hotspots

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/plantview/roadview-backend/internal/models"
	"github.com/plantview/roadview-backend/internal/roadview"
)

// HotspotHandler serves hotspot placement, listing, deletion, and the
// click/recentre interactions.
type HotspotHandler struct {
	Session *roadview.Session
}

// List returns the raw hotspots for a scene, given as the scene_id query
// parameter.
func (h *HotspotHandler) List(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene_id")
	if sceneID == "" {
		http.Error(w, "Scene ID is required as a query parameter (e.g., ?scene_id=some_id)", http.StatusBadRequest)
		return
	}
	list := h.Session.Hotspots.For(sceneID)
	if list == nil {
		list = []models.Hotspot{}
	}
	writeJSON(w, list)
}

// Place handles a pointer gesture ending on the panorama in edit mode.
// Drags never open a popup; while a popup is open further clicks are
// rejected so the drafted coordinates cannot shift under the user.
func (h *HotspotHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Moved float64 `json:"moved"` // cumulative pointer travel in px
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := h.Session.BeginPlacement(req.X, req.Y, req.Moved)
	if err != nil {
		if errors.Is(err, roadview.ErrPlacementLocked) {
			http.Error(w, "A placement popup is already open", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{"draft": draft}) // draft nil = drag, no popup
}

// Confirm creates the hotspot at the drafted coordinates.
func (h *HotspotHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label         string             `json:"label"`
		Type          models.HotspotType `json:"type"`
		TargetSceneID string             `json:"targetSceneId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hs, err := h.Session.ConfirmPlacement(req.Label, req.Type, req.TargetSceneID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(hs)
}

// Cancel discards the placement draft and releases the coordinate lock.
func (h *HotspotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.Session.CancelPlacement()
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a hotspot. Destructive, so it demands confirm=true; a
// request without it returns 428 and changes nothing.
func (h *HotspotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID   string `json:"sceneId"`
		HotspotID string `json:"hotspotId"`
		Confirm   bool   `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" || req.HotspotID == "" {
		http.Error(w, "Scene ID and Hotspot ID cannot be empty", http.StatusBadRequest)
		return
	}

	if err := h.Session.DeleteHotspot(req.SceneID, req.HotspotID, req.Confirm); err != nil {
		if errors.Is(err, roadview.ErrConfirmationRequired) {
			http.Error(w, "Deleting a hotspot requires confirmation", http.StatusPreconditionRequired)
			return
		}
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// Click resolves a viewer click on a hotspot. Nav hotspots navigate; a
// dangling target is a silent no-op.
func (h *HotspotHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID   string `json:"sceneId"`
		HotspotID string `json:"hotspotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" || req.HotspotID == "" {
		http.Error(w, "Scene ID and Hotspot ID cannot be empty", http.StatusBadRequest)
		return
	}
	h.Session.ClickHotspot(req.SceneID, req.HotspotID)
	w.WriteHeader(http.StatusNoContent)
}

// Recentre returns the ease-out swing parameters that bring a hotspot on
// the current scene to the centre of view. The client samples the curve
// and writes orientations back frame by frame.
func (h *HotspotHandler) Recentre(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HotspotID string `json:"hotspotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HotspotID == "" {
		http.Error(w, "Hotspot ID cannot be empty", http.StatusBadRequest)
		return
	}

	rec, err := h.Session.RecentreOn(req.HotspotID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		log.Printf("[Hotspots] Recentre failed: %v", err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"startYaw":    rec.StartYaw,
		"startPitch":  rec.StartPitch,
		"targetYaw":   rec.TargetYaw,
		"targetPitch": rec.TargetPitch,
		"durationMs":  rec.Duration.Milliseconds(),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
