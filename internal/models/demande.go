package models

import (
	"time"

	"gorm.io/gorm"
)

// Statuts d'une demande de subvention.
const (
	DemandeBrouillon = "BROUILLON"
	DemandeSoumise   = "SOUMIS"
	DemandeEnRevue   = "EN_REVUE"
	DemandeApprouvee = "APPROUVE"
	DemandeRejetee   = "REJETE"
)

// Types de document acceptés en pièce jointe du dossier.
const (
	DocStatuts          = "STATUTS"
	DocAgrement         = "AGREMENT"
	DocRapportActivite  = "RAPPORT_ACTIVITE"
	DocEtatsFinanciers  = "ETATS_FINANCIERS"
	DocBudgetDetaille   = "BUDGET_DETAILLE"
	DocLettreSoutien    = "LETTRE_SOUTIEN"
	DocCartographieSite = "CARTOGRAPHIE_SITE"
	DocCV               = "CV"
)

// TypesDocumentAutorises est la liste blanche des clés d'attachement; une clé
// inconnue dans le formulaire est ignorée sans faire échouer la soumission.
var TypesDocumentAutorises = map[string]bool{
	DocStatuts:          true,
	DocAgrement:         true,
	DocRapportActivite:  true,
	DocEtatsFinanciers:  true,
	DocBudgetDetaille:   true,
	DocLettreSoutien:    true,
	DocCartographieSite: true,
	DocCV:               true,
}

// DemandeSubvention est la racine d'agrégat d'une soumission : toutes les
// lignes filles sont créées dans la même transaction que la demande.
type DemandeSubvention struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrganisationID uint `gorm:"index;not null" json:"organisationId"`
	UtilisateurID  uint `gorm:"index;not null" json:"utilisateurId"`

	Statut        string `gorm:"size:32;not null;default:BROUILLON" json:"statut"`
	Titre         string `gorm:"size:512;not null" json:"titre"`
	Localisation  string `gorm:"size:512" json:"localisation,omitempty"`
	Contexte      string `gorm:"type:text" json:"contexte,omitempty"`
	Objectifs     string `gorm:"type:text" json:"objectifs,omitempty"`
	Beneficiaires string `gorm:"type:text" json:"beneficiaires,omitempty"`
	Durabilite    string `gorm:"type:text" json:"durabilite,omitempty"`
	DureeMois     int    `json:"dureeMois,omitempty"`

	BudgetTotal      float64 `json:"budgetTotal"`
	ContributionFPBG float64 `json:"contributionFpbg"`
	Cofinancement    float64 `json:"cofinancement"`

	Activites    []Activite    `gorm:"constraint:OnDelete:CASCADE" json:"activites,omitempty"`
	Risques      []Risque      `gorm:"constraint:OnDelete:CASCADE" json:"risques,omitempty"`
	Pieces       []PieceJointe `gorm:"constraint:OnDelete:CASCADE" json:"pieces,omitempty"`
	Cofinanceurs []Cofinanceur `gorm:"constraint:OnDelete:CASCADE" json:"cofinanceurs,omitempty"`
}

// Activite : Ordre = position zéro-basée dans le formulaire, figée à la
// création, jamais recalculée.
type Activite struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	DemandeSubventionID uint   `gorm:"index;not null" json:"-"`
	Ordre               int    `gorm:"not null" json:"ordre"`
	Titre               string `gorm:"size:512;not null" json:"titre"`
	Description         string `gorm:"type:text" json:"description,omitempty"`

	SousActivites []SousActivite `gorm:"constraint:OnDelete:CASCADE" json:"sousActivites,omitempty"`
	LignesBudget  []LigneBudget  `gorm:"constraint:OnDelete:CASCADE" json:"lignesBudget,omitempty"`
}

type SousActivite struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ActiviteID uint   `gorm:"index;not null" json:"-"`
	Ordre      int    `gorm:"not null" json:"ordre"`
	Titre      string `gorm:"size:512;not null" json:"titre"`
	Resultats  string `gorm:"type:text" json:"resultats,omitempty"`
}

type LigneBudget struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ActiviteID   uint    `gorm:"index;not null" json:"-"`
	Ordre        int     `gorm:"not null" json:"ordre"`
	Libelle      string  `gorm:"size:512;not null" json:"libelle"`
	Quantite     float64 `json:"quantite"`
	CoutUnitaire float64 `json:"coutUnitaire"`
	Montant      float64 `json:"montant"`
}

type Risque struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	DemandeSubventionID uint   `gorm:"index;not null" json:"-"`
	Ordre               int    `gorm:"not null" json:"ordre"`
	Description         string `gorm:"type:text;not null" json:"description"`
	Attenuation         string `gorm:"type:text" json:"attenuation,omitempty"`
}

type PieceJointe struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	DemandeSubventionID uint      `gorm:"index;not null" json:"-"`

	TypeDocument string `gorm:"size:64;not null" json:"typeDocument"`
	NomFichier   string `gorm:"size:255;not null" json:"nomFichier"`
	Chemin       string `gorm:"size:512;not null" json:"-"`
	URL          string `gorm:"size:512;not null" json:"url"`
	TypeMime     string `gorm:"size:128" json:"typeMime"`
	Taille       int64  `json:"taille"`
}

type Cofinanceur struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	DemandeSubventionID uint    `gorm:"index;not null" json:"-"`
	Nom                 string  `gorm:"size:255;not null" json:"nom"`
	Contact             string  `gorm:"size:255" json:"contact,omitempty"`
	Montant             float64 `json:"montant"`
}
