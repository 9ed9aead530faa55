package scenes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/plantview/roadview-backend/internal/roadview"
)

// SceneHandler serves scene listing, navigation, and scene-level edits
// for the active viewing session.
type SceneHandler struct {
	Session *roadview.Session
}

// List returns the effective scene sequence with overrides applied.
func (h *SceneHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.ListScenes())
}

// Current returns the full render state of the current scene: camera,
// sphere correction, hotspot screen positions and edge indicators,
// main-path position indicator, and control availability.
func (h *SceneHandler) Current(w http.ResponseWriter, r *http.Request) {
	view, err := h.Session.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

// Next advances along the main path. Branch scenes are never reached this
// way.
func (h *SceneHandler) Next(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"moved": h.Session.GoNext()})
}

// Prev steps back along the main path.
func (h *SceneHandler) Prev(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"moved": h.Session.GoPrev()})
}

// Goto jumps to an effective-sequence index (thumbnail strip click).
func (h *SceneHandler) Goto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Session.GoToIndex(req.Index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"moved": true})
}

// LoadComplete is the renderer's callback when a panorama texture has
// finished loading; the session then applies heading and sphere
// correction together with the swap. Stale loads are ignored.
func (h *SceneHandler) LoadComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	h.Session.CompleteTransition(req.SceneID)
	w.WriteHeader(http.StatusNoContent)
}

// Reorder moves a scene between effective positions (drag-reorder on the
// thumbnail strip).
func (h *SceneHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Session.ReorderScenes(req.From, req.To); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("[Scenes] Reordered scene %d -> %d", req.From, req.To)
	writeJSON(w, h.Session.ListScenes())
}

// ResetOrder clears the user-defined order back to catalog order.
func (h *SceneHandler) ResetOrder(w http.ResponseWriter, r *http.Request) {
	h.Session.ResetOrder()
	log.Println("[Scenes] Scene order reset to catalog order")
	writeJSON(w, h.Session.ListScenes())
}

// Hide soft-deletes or restores a scene. Hiding requires confirm=true.
func (h *SceneHandler) Hide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
		Hidden  bool   `json:"hidden"`
		Confirm bool   `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	if err := h.Session.SetHidden(req.SceneID, req.Hidden, req.Confirm); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, roadview.ErrConfirmationRequired) {
			status = http.StatusPreconditionRequired
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, h.Session.ListScenes())
}

// Override sets the display label/area for a scene. Empty values clear
// back to the catalog defaults.
func (h *SceneHandler) Override(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
		Label   string `json:"label"`
		Area    string `json:"area"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	if err := h.Session.SetSceneDisplay(req.SceneID, req.Label, req.Area); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// ExcludePath marks a scene as a branch (excluded from sequential
// stepping) or puts it back on the main path.
func (h *SceneHandler) ExcludePath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
		Exclude bool   `json:"exclude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	if err := h.Session.SetExcludeFromPath(req.SceneID, req.Exclude); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// Select toggles a scene in the batch-edit selection set.
func (h *SceneHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
		Clear   bool   `json:"clear"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Clear {
		h.Session.ClearSelection()
	} else if req.SceneID != "" {
		h.Session.ToggleSelect(req.SceneID)
	}
	writeJSON(w, map[string][]string{"selection": h.Session.Selection()})
}

// RelabelBatch applies "<prefix> N" labels across the whole selection in
// one atomic update, numbering in effective-sequence order.
func (h *SceneHandler) RelabelBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prefix string `json:"prefix"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Session.BatchRelabel(req.Prefix); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.Session.ListScenes())
}

// Heading stores the current camera direction as the scene's initial
// heading.
func (h *SceneHandler) Heading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"sceneId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	yaw, pitch, err := h.Session.SetHeading(req.SceneID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("[Scenes] Saved heading for %s (yaw=%.1f pitch=%.1f)", req.SceneID, yaw, pitch)
	writeJSON(w, map[string]float64{"yaw": yaw, "pitch": pitch})
}

// Correction stores the sphere pitch/roll correction for a scene without
// touching its initial heading.
func (h *SceneHandler) Correction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID     string  `json:"sceneId"`
		SpherePitch float64 `json:"spherePitch"`
		SphereRoll  float64 `json:"sphereRoll"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SceneID == "" {
		http.Error(w, "Scene ID cannot be empty", http.StatusBadRequest)
		return
	}
	if err := h.Session.SetCorrection(req.SceneID, req.SpherePitch, req.SphereRoll); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// EditMode toggles edit mode for the session.
func (h *SceneHandler) EditMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.Session.SetEditMode(req.Enabled)
	writeJSON(w, map[string]bool{"editMode": req.Enabled})
}

// CameraRotate applies a pointer drag to the live camera.
func (h *SceneHandler) CameraRotate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.Session.Rotate(req.DX, req.DY)
	w.WriteHeader(http.StatusNoContent)
}

// CameraZoom applies a wheel delta to the field of view.
func (h *SceneHandler) CameraZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.Session.Zoom(req.Delta)
	w.WriteHeader(http.StatusNoContent)
}

// CameraSet writes an absolute orientation, used by recentre animation
// frames. Last writer wins against concurrent drags.
func (h *SceneHandler) CameraSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Yaw   float64 `json:"yaw"`
		Pitch float64 `json:"pitch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.Session.SetOrientation(req.Yaw, req.Pitch)
	w.WriteHeader(http.StatusNoContent)
}

// CameraResize updates the viewport size used for projection.
func (h *SceneHandler) CameraResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "Invalid viewport size", http.StatusBadRequest)
		return
	}
	h.Session.Resize(req.Width, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
