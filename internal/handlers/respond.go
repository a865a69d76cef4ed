package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Success: status < 400, Message: message})
}

// writeDomainError maps a domain error to an HTTP status. errMessage
// comes from the service wrapping, so the client sees the specific
// reason, not the sentinel text.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrUnauthorized):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrInvalidToken):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUpload),
		errors.Is(err, common.ErrDelivery):
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, common.ErrUpload) && !errors.Is(err, common.ErrDelivery) {
		// Don't leak internals
		message = "something went wrong"
	}
	writeMessage(w, status, message)
}

// userPayload is the public view of a user: identity and bio fields,
// never the password hash.
func userPayload(u *models.User) map[string]interface{} {
	payload := map[string]interface{}{
		"_id":   u.ID.Hex(),
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"bio":   u.Bio,
	}
	if u.Photo != nil {
		payload["photo"] = u.Photo
	}
	return payload
}

// setSessionCookie attaches the session token as an HTTP-only cookie,
// valid for one day. SameSite=None + Secure because the frontend is
// served from a different origin.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
