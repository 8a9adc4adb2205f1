package projets

import (
	"net/http"

	"github.com/gorilla/mux"

	"fpbg/internal/middleware"
)

// RegisterRoutes monte /api/projets. Tout est authentifié; la revue et la
// suppression sont réservées aux administrateurs.
func RegisterRoutes(r *mux.Router, h *Handler, verify middleware.Verifier) {
	api := r.PathPrefix("/api/projets").Subrouter()
	api.Use(middleware.RequireAuth(verify))

	api.HandleFunc("/submit", h.Submit).Methods(http.MethodPost)
	api.HandleFunc("", h.Creer).Methods(http.MethodPost)
	api.HandleFunc("", h.List).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/projets").Subrouter()
	admin.Use(middleware.RequireAuth(verify), middleware.RequireAdmin)
	admin.HandleFunc("/{id:[0-9]+}/statut", h.ChangerStatut).Methods(http.MethodPatch)
	admin.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
