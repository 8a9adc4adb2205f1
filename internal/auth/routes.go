package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"fpbg/internal/middleware"
)

// RegisterRoutes monte /api/auth. Les endpoints sensibles (register, verify,
// resend, login) passent par le limiteur de débit par IP.
func RegisterRoutes(r *mux.Router, h *Handler, rl *middleware.RateLimiter) {
	api := r.PathPrefix("/api/auth").Subrouter()

	limited := api.NewRoute().Subrouter()
	limited.Use(rl.Handler)
	limited.HandleFunc("/register/agent", h.RegisterAgent).Methods(http.MethodPost)
	limited.HandleFunc("/register/organisation", h.RegisterOrganisation).Methods(http.MethodPost)
	limited.HandleFunc("/verify-otp", h.VerifyOTP).Methods(http.MethodPost)
	limited.HandleFunc("/resend-otp", h.ResendOTP).Methods(http.MethodPost)
	limited.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	api.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(h.svc.Tokens().Verify))
	authed.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	authed.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
}
