package projets

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"fpbg/internal/logs"
	"fpbg/internal/middleware"
	"fpbg/internal/models"
	"fpbg/internal/uploads"
)

type Handler struct {
	store *Store
	saver *uploads.Saver
}

func NewHandler(store *Store, saver *uploads.Saver) *Handler {
	return &Handler{store: store, saver: saver}
}

// Submit traite le formulaire multipart du wizard : champ projectData (JSON)
// + champs de fichier attachment_<TYPE> / CV[].
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		models.WriteError(w, models.ErrValidation("formulaire multipart invalide"))
		return
	}
	raw := r.FormValue("projectData")
	if raw == "" {
		models.WriteError(w, models.ErrValidation("champ projectData manquant"))
		return
	}
	payload, err := DecodePayload([]byte(raw))
	if err != nil {
		models.WriteError(w, err)
		return
	}
	if err := payload.Validate(); err != nil {
		models.WriteError(w, err)
		return
	}

	// Sauvegarde des pièces; une clé de champ inconnue est ignorée sans
	// faire échouer la soumission.
	var fichiers []uploads.Fichier
	if r.MultipartForm != nil {
		for field, fhs := range r.MultipartForm.File {
			typeDoc, ok := uploads.ResoudreTypeDocument(field)
			if !ok {
				logs.Logger.Debugf("champ de fichier ignoré: %s", field)
				continue
			}
			for _, fh := range fhs {
				f, err := h.saver.Save(fh, typeDoc)
				if err != nil {
					nettoyer(fichiers)
					models.WriteError(w, err)
					return
				}
				fichiers = append(fichiers, *f)
			}
		}
	}

	d, err := h.store.Soumettre(r.Context(), payload, fichiers, id.UserID)
	if err != nil {
		nettoyer(fichiers)
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "demande soumise",
		"data":    d,
	})
}

// Creer enregistre un brouillon (JSON simple, sans pièces jointes).
func (h *Handler) Creer(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r)
	var payload ProjetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	if err := payload.ValidateBrouillon(); err != nil {
		models.WriteError(w, err)
		return
	}
	d, err := h.store.CreerBrouillon(r.Context(), &payload, id.UserID)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "brouillon créé",
		"data":    d,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r)
	var (
		ds  []models.DemandeSubvention
		err error
	)
	if id.EstAdmin() {
		ds, err = h.store.ListAll(r.Context())
	} else {
		ds, err = h.store.ListPourUtilisateur(r.Context(), id.UserID)
	}
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.GetIdentity(r)
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	d, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	// Propriétaire ou administrateur uniquement.
	if !ident.EstAdmin() && d.UtilisateurID != ident.UserID {
		models.WriteError(w, models.ErrForbidden("accès refusé"))
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) ChangerStatut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	var body struct {
		Statut string `json:"statut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Statut == "" {
		models.WriteError(w, models.ErrValidation("champ statut requis"))
		return
	}
	d, err := h.store.ChangerStatut(r.Context(), id, body.Statut)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
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

func pathID(r *http.Request) (uint, error) {
	v, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, models.ErrValidation("identifiant invalide")
	}
	return uint(v), nil
}

// nettoyer retire du disque les fichiers déjà écrits quand la transaction
// échoue : pas de pièce orpheline.
func nettoyer(fichiers []uploads.Fichier) {
	for _, f := range fichiers {
		_ = os.Remove(f.Chemin)
	}
}
