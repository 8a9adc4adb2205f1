package organisations

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fpbg/internal/middleware"
	"fpbg/internal/models"
	"fpbg/internal/repo"
)

type Handler struct {
	store *repo.OrganisationStore
}

func NewHandler(store *repo.OrganisationStore) *Handler { return &Handler{store: store} }

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.List(r.Context())
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, orgs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.autorise(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, org)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	org, err := h.autorise(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	var maj models.Organisation
	if err := json.NewDecoder(r.Body).Decode(&maj); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	if maj.Nom == "" {
		models.WriteError(w, models.ErrValidation("le nom de l'organisation est requis"))
		return
	}
	res, err := h.store.Update(r.Context(), org.ID, &maj)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}

// Delete (admin) : refusée si l'organisation possède des projets.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		models.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// autorise charge l'organisation et vérifie propriétaire-ou-admin.
func (h *Handler) autorise(r *http.Request) (*models.Organisation, error) {
	ident, _ := middleware.GetIdentity(r)
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	org, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !ident.EstAdmin() && org.UtilisateurID != ident.UserID {
		return nil, models.ErrForbidden("accès refusé")
	}
	return org, nil
}

func pathID(r *http.Request) (uint, error) {
	v, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, models.ErrValidation("identifiant invalide")
	}
	return uint(v), nil
}
