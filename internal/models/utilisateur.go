package models

import (
	"time"

	"gorm.io/gorm"
)

// Types de compte portés par la table unique d'identité.
const (
	CompteAgent        = "agent"
	CompteOrganisation = "organisation"
	CompteAdmin        = "admin"
)

// Statut de vérification du compte (énum explicite, pas de colonne OTP réutilisée).
const (
	StatutEnAttenteVerification = "EN_ATTENTE_VERIFICATION"
	StatutActif                 = "ACTIF"
)

// Utilisateur est la seule table portant des identifiants. Les organisations
// sont des profils rattachés (voir Organisation), sans mot de passe propre.
type Utilisateur struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Pointeur : NULL en base quand absent, pour que l'index unique ne
	// considère pas deux comptes sans pseudo comme des doublons.
	NomUtilisateur *string `gorm:"uniqueIndex;size:128" json:"nomUtilisateur,omitempty"`
	MotDePasse     string  `gorm:"size:255;not null" json:"-"`
	Prenom         string  `gorm:"size:128" json:"prenom,omitempty"`
	Nom            string  `gorm:"size:128" json:"nom,omitempty"`
	Telephone      string  `gorm:"size:64"  json:"telephone,omitempty"`
	TypeCompte     string  `gorm:"size:32;not null" json:"typeCompte"`
	Statut         string  `gorm:"size:32;not null;default:EN_ATTENTE_VERIFICATION" json:"statut"`

	Organisation *Organisation `json:"organisation,omitempty"`
}

// EstVerifie : seul un compte ACTIF peut se connecter.
func (u *Utilisateur) EstVerifie() bool { return u.Statut == StatutActif }

func (u *Utilisateur) EstAdmin() bool {
	return u.TypeCompte == CompteAdmin || u.TypeCompte == CompteAgent
}
