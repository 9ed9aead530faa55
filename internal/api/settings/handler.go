package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/plantview/roadview-backend/internal/models"
	"github.com/plantview/roadview-backend/internal/persistence"
	"github.com/plantview/roadview-backend/internal/roadview"
)

// SettingsHandler serves the persisted settings document: read, write,
// export, and import.
type SettingsHandler struct {
	Session *roadview.Session
	Bridge  *persistence.Bridge
}

// ack is the write acknowledgment shape. Error carries the human-readable
// failure reason, surfaced to the user verbatim.
type ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Get returns the current settings document. It never errors merely
// because nothing has been saved yet: a fresh session yields an empty
// document.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc := h.Session.Document()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// Put accepts a full settings document, replaces the in-memory state, and
// persists it to both tiers: local synchronously, then the baseline. A
// baseline failure still acknowledges with its reason, since the edits
// are valid locally but not yet durably shared.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeAck(w, http.StatusBadRequest, ack{Error: "failed to read request body"})
		return
	}

	doc, err := models.ParseSettings(body)
	if err != nil {
		writeAck(w, http.StatusBadRequest, ack{Error: "invalid settings format"})
		log.Printf("[Settings] Rejected settings write: %v", err)
		return
	}

	h.Session.LoadFrom(doc)
	if err := h.Bridge.SaveLocal(doc); err != nil {
		writeAck(w, http.StatusInternalServerError, ack{Error: err.Error()})
		return
	}
	if err := h.Bridge.PushBaseline(r.Context(), doc); err != nil {
		writeAck(w, http.StatusOK, ack{Success: true, Error: err.Error()})
		return
	}
	writeAck(w, http.StatusOK, ack{Success: true})
	log.Println("[Settings] Saved settings document to both tiers")
}

// Save persists the current in-memory state without a request document.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Push bool `json:"push"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Session.Save(r.Context(), req.Push); err != nil {
		if errors.Is(err, persistence.ErrBaselinePush) {
			// Local write stood; report the partial outcome with its reason.
			writeAck(w, http.StatusOK, ack{Success: true, Error: err.Error()})
			return
		}
		writeAck(w, http.StatusInternalServerError, ack{Error: err.Error()})
		return
	}
	writeAck(w, http.StatusOK, ack{Success: true})
}

// Export streams the settings document as a dated JSON download.
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.Bridge.Export(h.Session.Document())
	if err != nil {
		http.Error(w, "Failed to export settings", http.StatusInternalServerError)
		log.Printf("[Settings] Export failed: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
	log.Printf("[Settings] Exported %s (%d bytes)", filename, len(data))
}

// Import accepts a user-supplied settings file, validates it, and
// replaces in-memory and locally persisted state. A malformed file leaves
// state untouched.
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeAck(w, http.StatusBadRequest, ack{Error: "failed to read request body"})
		return
	}

	doc, err := h.Bridge.Import(body)
	if err != nil {
		writeAck(w, http.StatusBadRequest, ack{Error: "invalid file format"})
		log.Printf("[Settings] Rejected import: %v", err)
		return
	}

	h.Session.ReplaceFromImport(doc)
	writeAck(w, http.StatusOK, ack{Success: true})
	log.Println("[Settings] Imported settings document")
}

func writeAck(w http.ResponseWriter, status int, a ack) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(a)
}
