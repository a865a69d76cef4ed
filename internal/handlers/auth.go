package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/services"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves register/login/logout/session-status.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	setSessionCookie(w, token)

	payload := userPayload(user)
	payload["token"] = token
	writeJSON(w, http.StatusCreated, payload)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email is a 400 here, same as bad credentials
		if errors.Is(err, common.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "user not found")
			return
		}
		writeDomainError(w, err)
		return
	}

	setSessionCookie(w, token)

	payload := userPayload(user)
	payload["token"] = token
	writeJSON(w, http.StatusOK, payload)
}

// Logout handles GET /api/auth/logout. Sessions are stateless, so this
// only instructs the browser to drop the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "successfully logged out")
}

// LoginStatus handles GET /api/auth/loggedin. Responds with a bare
// boolean; a missing or unverifiable cookie is false, never an error.
func (h *AuthHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusOK, false)
		return
	}
	writeJSON(w, http.StatusOK, h.auth.SessionStatus(cookie.Value))
}
