package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportmania/sportmania-backend/internal/handlers"
)

// SetupRoutes wires the HTTP surface. protect guards the routes that
// require an authenticated session cookie.
func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, users *handlers.UserHandler, protect func(http.Handler) http.Handler) {
	// Auth routes
	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)
	r.Get("/api/auth/logout", auth.Logout)
	r.Get("/api/auth/loggedin", auth.LoginStatus)

	// User routes
	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Get("/api/users/getuser", users.GetUser)
		r.Patch("/api/users/updateuser", users.UpdateUser)
		r.Patch("/api/users/changepassword", users.ChangePassword)
	})
	r.Post("/api/users/forgotpassword", users.ForgotPassword)
	r.Put("/api/users/resetpassword/{resetToken}", users.ResetPassword)
}
