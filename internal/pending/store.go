// Package pending conserve les inscriptions en attente de vérification OTP
// derrière une interface étroite {Get, Put, Delete} indexée par email, pour
// pouvoir substituer un store externe (Redis) au store mémoire.
package pending

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound : aucune inscription en attente pour cet email.
var ErrNotFound = errors.New("pending registration not found")

// Types d'inscription en attente.
const (
	TypeUser         = "user"
	TypeOrganisation = "organisation"
)

// Registration est l'état transitoire entre register et verify-otp.
// Jamais persisté en base : une inscription non confirmée disparaît
// au redémarrage (mémoire) ou à l'expiration du TTL (Redis).
type Registration struct {
	Type      string    `json:"type"` // user | organisation
	OTP       string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`

	// Champs du futur Utilisateur (mot de passe déjà haché).
	Email          string `json:"email"`
	NomUtilisateur string `json:"nomUtilisateur,omitempty"`
	MotDePasse     string `json:"motDePasse"`
	Prenom         string `json:"prenom,omitempty"`
	Nom            string `json:"nom,omitempty"`
	Telephone      string `json:"telephone,omitempty"`

	// Champs du futur profil Organisation (voie organisation uniquement).
	OrgNom              string `json:"orgNom,omitempty"`
	OrgSigle            string `json:"orgSigle,omitempty"`
	OrgTypeOrganisation string `json:"orgTypeOrganisation,omitempty"`
	OrgAdresse          string `json:"orgAdresse,omitempty"`
	OrgTelephone        string `json:"orgTelephone,omitempty"`
	OrgSiteWeb          string `json:"orgSiteWeb,omitempty"`
	OrgDescription      string `json:"orgDescription,omitempty"`
}

// Expiree teste l'expiration du code à l'instant donné.
func (r *Registration) Expiree(now time.Time) bool { return now.After(r.ExpiresAt) }

// Store : une seule inscription en attente par email; Put écrase
// silencieusement l'entrée précédente (dernier appel gagnant).
type Store interface {
	Get(ctx context.Context, email string) (*Registration, error)
	Put(ctx context.Context, email string, reg *Registration) error
	Delete(ctx context.Context, email string) error
}
