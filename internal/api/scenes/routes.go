package scenes

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSceneRoutes registers scene navigation and edit routes. edit
// wraps the routes that mutate persisted scene state; pure navigation and
// camera movement stay open to the viewer.
func RegisterSceneRoutes(r *mux.Router, handler *SceneHandler, edit func(http.Handler) http.Handler) {
	r.HandleFunc("/api/v1/scenes/list", handler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/scenes/current", handler.Current).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/scenes/next", handler.Next).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/prev", handler.Prev).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/goto", handler.Goto).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/load-complete", handler.LoadComplete).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/scenes/camera/rotate", handler.CameraRotate).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/camera/zoom", handler.CameraZoom).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/camera/set", handler.CameraSet).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scenes/camera/resize", handler.CameraResize).Methods(http.MethodPost)

	r.Handle("/api/v1/scenes/edit-mode", edit(http.HandlerFunc(handler.EditMode))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/reorder", edit(http.HandlerFunc(handler.Reorder))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/reset-order", edit(http.HandlerFunc(handler.ResetOrder))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/hide", edit(http.HandlerFunc(handler.Hide))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/override", edit(http.HandlerFunc(handler.Override))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/exclude-path", edit(http.HandlerFunc(handler.ExcludePath))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/select", edit(http.HandlerFunc(handler.Select))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/relabel-batch", edit(http.HandlerFunc(handler.RelabelBatch))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/heading", edit(http.HandlerFunc(handler.Heading))).Methods(http.MethodPost)
	r.Handle("/api/v1/scenes/correction", edit(http.HandlerFunc(handler.Correction))).Methods(http.MethodPost)
}
