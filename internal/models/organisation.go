package models

import (
	"time"

	"gorm.io/gorm"
)

// Organisation est un profil sans identifiants, lié 1:1 à son Utilisateur
// propriétaire. La suppression est refusée tant qu'au moins une demande
// de subvention lui appartient (contrôle dans le store).
type Organisation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UtilisateurID uint `gorm:"uniqueIndex;not null" json:"utilisateurId"`

	Nom              string `gorm:"size:255;not null" json:"nom"`
	Sigle            string `gorm:"size:64"  json:"sigle,omitempty"`
	TypeOrganisation string `gorm:"size:128" json:"typeOrganisation,omitempty"` // ONG, association, coopérative...
	Adresse          string `gorm:"size:512" json:"adresse,omitempty"`
	Telephone        string `gorm:"size:64"  json:"telephone,omitempty"`
	SiteWeb          string `gorm:"size:255" json:"siteWeb,omitempty"`
	Description      string `gorm:"type:text" json:"description,omitempty"`
}
