package hotspots

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterHotspotRoutes registers hotspot routes. Placement and deletion
// mutate persisted state and sit behind the edit guard; click and
// recentre are viewer interactions.
func RegisterHotspotRoutes(r *mux.Router, handler *HotspotHandler, edit func(http.Handler) http.Handler) {
	r.HandleFunc("/api/v1/hotspots/list", handler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/hotspots/click", handler.Click).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/hotspots/recentre", handler.Recentre).Methods(http.MethodPost)

	r.Handle("/api/v1/hotspots/place", edit(http.HandlerFunc(handler.Place))).Methods(http.MethodPost)
	r.Handle("/api/v1/hotspots/confirm", edit(http.HandlerFunc(handler.Confirm))).Methods(http.MethodPost)
	r.Handle("/api/v1/hotspots/cancel", edit(http.HandlerFunc(handler.Cancel))).Methods(http.MethodPost)
	r.Handle("/api/v1/hotspots/delete", edit(http.HandlerFunc(handler.Delete))).Methods(http.MethodPost)
}
