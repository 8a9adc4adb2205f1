package organisations

import (
	"net/http"

	"github.com/gorilla/mux"

	"fpbg/internal/middleware"
)

func RegisterRoutes(r *mux.Router, h *Handler, verify middleware.Verifier) {
	api := r.PathPrefix("/api/organisations").Subrouter()
	api.Use(middleware.RequireAuth(verify))
	api.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)

	admin := r.PathPrefix("/api/organisations").Subrouter()
	admin.Use(middleware.RequireAuth(verify), middleware.RequireAdmin)
	admin.HandleFunc("", h.List).Methods(http.MethodGet)
	admin.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
