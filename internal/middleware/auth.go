package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sportmania/sportmania-backend/internal/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// Protect rejects requests whose session cookie is absent or fails
// verification, and puts the authenticated user ID on the context.
func Protect(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			userIDHex, err := auth.GetUserIDFromToken(cookie.Value, jwtSecret)
			if err != nil {
				unauthorized(w)
				return
			}

			userID, err := primitive.ObjectIDFromHex(userIDHex)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the user ID that Protect stored.
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "not authorized, please login",
	})
}
