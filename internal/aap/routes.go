package aap

import (
	"net/http"

	"github.com/gorilla/mux"

	"fpbg/internal/middleware"
)

// RegisterRoutes monte /api/aap : lecture publique (la SPA affiche les appels
// avant connexion), mutations réservées aux administrateurs.
func RegisterRoutes(r *mux.Router, h *Handler, verify middleware.Verifier) {
	api := r.PathPrefix("/api/aap").Subrouter()
	api.HandleFunc("", h.List).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/aap").Subrouter()
	admin.Use(middleware.RequireAuth(verify), middleware.RequireAdmin)
	admin.HandleFunc("", h.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/toggle", h.Toggle).Methods(http.MethodPatch)
	admin.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
