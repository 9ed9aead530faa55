package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes registers the edit-mode login route.
func RegisterAuthRoutes(r *mux.Router, handler *Handler) {
	r.HandleFunc("/api/v1/auth/login", handler.Login).Methods(http.MethodPost)
}
