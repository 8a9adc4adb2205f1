package aap

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fpbg/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := decode(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	a, err := h.store.Create(r.Context(), p)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actifs := r.URL.Query().Get("actif") == "true"
	as, err := h.store.List(r.Context(), actifs)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, as)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	a, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	p, err := decode(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	a, err := h.store.Update(r.Context(), id, p)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	a, err := h.store.Toggle(r.Context(), id)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}

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

func decode(r *http.Request) (*AppelPayload, error) {
	var p AppelPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, models.ErrValidation("corps JSON invalide")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func pathID(r *http.Request) (uint, error) {
	v, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, models.ErrValidation("identifiant invalide")
	}
	return uint(v), nil
}
