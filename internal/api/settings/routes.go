package settings

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSettingsRoutes registers the settings document routes. edit
// wraps the mutating routes with the edit-token guard.
func RegisterSettingsRoutes(r *mux.Router, handler *SettingsHandler, edit func(http.Handler) http.Handler) {
	r.HandleFunc("/api/v1/settings", handler.Get).Methods(http.MethodGet)
	r.Handle("/api/v1/settings", edit(http.HandlerFunc(handler.Put))).Methods(http.MethodPost)
	r.Handle("/api/v1/settings/save", edit(http.HandlerFunc(handler.Save))).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/settings/export", handler.Export).Methods(http.MethodGet)
	r.Handle("/api/v1/settings/import", edit(http.HandlerFunc(handler.Import))).Methods(http.MethodPost)
}
