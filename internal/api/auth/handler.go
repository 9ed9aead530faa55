package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Handler issues edit-mode tokens. With no password hash configured the
// service runs open and login is a no-op endpoint.
type Handler struct {
	PasswordHash string // bcrypt hash of the edit password
	JWTSecret    []byte
	TokenTTL     time.Duration
}

// Login checks the edit password and returns a signed bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Printf("Error decoding request body for Login: %v", err)
		return
	}

	if h.PasswordHash == "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":   "",
			"message": "Edit mode is not password protected",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid edit password", http.StatusUnauthorized)
		log.Println("[Auth] Rejected edit login attempt")
		return
	}

	ttl := h.TokenTTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scope": "edit",
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		http.Error(w, "Failed to issue edit token", http.StatusInternalServerError)
		log.Printf("[Auth] Failed to sign edit token: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
	log.Println("[Auth] Issued edit token")
}
