package handlers

import (
	"net/http"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/services"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		// Deliberately vague: do not leak which half was wrong.
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
