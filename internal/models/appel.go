package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppelProjets : appel à projets administré, avec ses guichets de subvention
// et ses thématiques. Le seul état est le booléen IsActive.
type AppelProjets struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Titre       string `gorm:"size:512;not null" json:"titre"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`

	Subventions []Subvention `gorm:"constraint:OnDelete:CASCADE" json:"subventions,omitempty"`
	Thematiques []Thematique `gorm:"constraint:OnDelete:CASCADE" json:"thematiques,omitempty"`
}

// Subvention : un guichet (fourchette de montant, durée plafond, date limite)
// avec son cycle de jalons ordonnés.
type Subvention struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AppelProjetsID uint       `gorm:"index;not null" json:"-"`
	TypeSubvention string     `gorm:"size:64;not null" json:"typeSubvention"` // petite|moyenne|grande
	MontantMin     float64    `json:"montantMin"`
	MontantMax     float64    `json:"montantMax"`
	DureeMaxMois   int        `json:"dureeMaxMois"`
	DateLimite     *time.Time `json:"dateLimite,omitempty"`

	Cycle []CycleStep `gorm:"constraint:OnDelete:CASCADE" json:"cycle,omitempty"`
}

type CycleStep struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SubventionID uint       `gorm:"index;not null" json:"-"`
	Ordre        int        `gorm:"not null" json:"ordre"`
	Titre        string     `gorm:"size:512;not null" json:"titre"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	DateDebut    *time.Time `json:"dateDebut,omitempty"`
	DateFin      *time.Time `json:"dateFin,omitempty"`
}

// Thematique : titre + liste de points, rattachée à un type de subvention.
type Thematique struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AppelProjetsID uint           `gorm:"index;not null" json:"-"`
	Titre          string         `gorm:"size:512;not null" json:"titre"`
	Points         datatypes.JSON `json:"points,omitempty"`
	TypeSubvention string         `gorm:"size:64" json:"typeSubvention,omitempty"`
}
