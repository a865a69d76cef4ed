package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportmania/sportmania-backend/internal/middleware"
	"github.com/sportmania/sportmania-backend/internal/services"
)

type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UserHandler serves the authenticated profile routes and the password
// reset flow.
type UserHandler struct {
	profile *services.ProfileService
}

func NewUserHandler(profile *services.ProfileService) *UserHandler {
	return &UserHandler{profile: profile}
}

// GetUser handles GET /api/users/getuser.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized, please login")
		return
	}

	user, err := h.profile.GetProfile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(user))
}

// UpdateUser handles PATCH /api/users/updateuser.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized, please login")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.profile.UpdateProfile(r.Context(), userID, services.ProfilePatch{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   req.Bio,
		Photo: req.Photo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(user))
}

// ChangePassword handles PATCH /api/users/changepassword.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized, please login")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profile.ChangePassword(r.Context(), userID, req.OldPassword, req.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password change successful")
}

// ForgotPassword handles POST /api/users/forgotpassword.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profile.ForgotPassword(r.Context(), req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "reset email sent")
}

// ResetPassword handles PUT /api/users/resetpassword/{resetToken}.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "resetToken")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profile.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password reset successful, please login")
}
