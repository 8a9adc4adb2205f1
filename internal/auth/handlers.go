package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"fpbg/internal/middleware"
	"fpbg/internal/models"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type registerBody struct {
	Email          string `json:"email"`
	NomUtilisateur string `json:"nomUtilisateur"`
	MotDePasse     string `json:"motDePasse"`
	Prenom         string `json:"prenom"`
	Nom            string `json:"nom"`
	Telephone      string `json:"telephone"`

	Organisation struct {
		Nom              string `json:"nom"`
		Sigle            string `json:"sigle"`
		TypeOrganisation string `json:"typeOrganisation"`
		Adresse          string `json:"adresse"`
		Telephone        string `json:"telephone"`
		SiteWeb          string `json:"siteWeb"`
		Description      string `json:"description"`
	} `json:"organisation"`
}

func (b *registerBody) input() RegisterInput {
	return RegisterInput{
		Email:          b.Email,
		NomUtilisateur: b.NomUtilisateur,
		MotDePasse:     b.MotDePasse,
		Prenom:         b.Prenom,
		Nom:            b.Nom,
		Telephone:      b.Telephone,

		OrgNom:              b.Organisation.Nom,
		OrgSigle:            b.Organisation.Sigle,
		OrgTypeOrganisation: b.Organisation.TypeOrganisation,
		OrgAdresse:          b.Organisation.Adresse,
		OrgTelephone:        b.Organisation.Telephone,
		OrgSiteWeb:          b.Organisation.SiteWeb,
		OrgDescription:      b.Organisation.Description,
	}
}

func (h *Handler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.svc.RegisterAgent)
}

func (h *Handler) RegisterOrganisation(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.svc.RegisterOrganisation)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request,
	via func(context.Context, RegisterInput) (*RegisterResult, error)) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	res, err := via(r.Context(), body.input())
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "code de vérification émis",
		"email":    res.Email,
		"otp":      res.OTP,
		"userName": res.UserName,
	})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), body.Email, body.OTP)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, res.Token)
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "compte vérifié",
		"token":   res.Token,
		"user":    res.User,
		"type":    res.Type,
	})
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	if _, err := h.svc.ResendOTP(r.Context(), body.Email); err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "nouveau code émis",
		"email":   body.Email,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Identifiant string `json:"identifiant"`
		MotDePasse  string `json:"motDePasse"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		models.WriteError(w, models.ErrValidation("corps JSON invalide"))
		return
	}
	ident := body.Identifiant
	if ident == "" {
		ident = body.Email
	}
	res, err := h.svc.Login(r.Context(), ident, body.MotDePasse)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, res.Token)
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "connexion réussie",
		"token":   res.Token,
		"user":    res.User,
		"type":    res.Type,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r)
	u, err := h.svc.Resolve(r.Context(), id.UserID)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          u,
		"type":          u.TypeCompte,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r)
	res, err := h.svc.Refresh(r.Context(), id.UserID)
	if err != nil {
		models.WriteError(w, err)
		return
	}
	h.setSessionCookie(w, res.Token)
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"token": res.Token,
		"user":  res.User,
		"type":  res.Type,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieSession,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   models.EnProduction(),
	})
	models.WriteJSON(w, http.StatusOK, map[string]any{"message": "déconnecté"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieSession,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.svc.Tokens().TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   models.EnProduction(),
	})
}
