package projets

import (
	"encoding/json"
	"strings"

	"fpbg/internal/models"
)

// ProjetPayload est le DTO typé du formulaire multi-étapes. Il est décodé et
// validé une seule fois à la frontière HTTP; aucune structure dynamique ne
// traverse jusqu'aux écritures transactionnelles.
type ProjetPayload struct {
	Titre            string  `json:"titre"`
	Localisation     string  `json:"localisation"`
	Contexte         string  `json:"contexte"`
	Objectifs        string  `json:"objectifs"`
	Beneficiaires    string  `json:"beneficiaires"`
	Durabilite       string  `json:"durabilite"`
	DureeMois        int     `json:"dureeMois"`
	BudgetTotal      float64 `json:"budgetTotal"`
	ContributionFPBG float64 `json:"contributionFpbg"`
	Cofinancement    float64 `json:"cofinancement"`

	Activites      []ActivitePayload      `json:"activites"`
	Risques        []RisquePayload        `json:"risques"`
	Collaborateurs []CollaborateurPayload `json:"collaborateurs"`
}

type ActivitePayload struct {
	Titre         string                `json:"titre"`
	Description   string                `json:"description"`
	SousActivites []SousActivitePayload `json:"sousActivites"`
	LignesBudget  []LigneBudgetPayload  `json:"lignesBudget"`
}

type SousActivitePayload struct {
	Titre     string `json:"titre"`
	Resultats string `json:"resultats"`
}

type LigneBudgetPayload struct {
	Libelle      string  `json:"libelle"`
	Quantite     float64 `json:"quantite"`
	CoutUnitaire float64 `json:"coutUnitaire"`
	Montant      float64 `json:"montant"`
}

type RisquePayload struct {
	Description string `json:"description"`
	Attenuation string `json:"attenuation"`
}

type CollaborateurPayload struct {
	Nom     string  `json:"nom"`
	Contact string  `json:"contact"`
	Montant float64 `json:"montant"`
}

// DecodePayload décode le champ multipart "projectData".
func DecodePayload(raw []byte) (*ProjetPayload, error) {
	var p ProjetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, models.ErrValidation("projectData : JSON invalide")
	}
	return &p, nil
}

// Validate vérifie le strict nécessaire pour une soumission complète.
// Un brouillon (voir CreerBrouillon) ne passe que ValidateBrouillon.
func (p *ProjetPayload) Validate() error {
	if err := p.ValidateBrouillon(); err != nil {
		return err
	}
	if len(p.Activites) == 0 {
		return models.ErrValidation("au moins une activité est requise")
	}
	for _, a := range p.Activites {
		if strings.TrimSpace(a.Titre) == "" {
			return models.ErrValidation("chaque activité doit avoir un titre")
		}
		for _, sa := range a.SousActivites {
			if strings.TrimSpace(sa.Titre) == "" {
				return models.ErrValidation("chaque sous-activité doit avoir un titre")
			}
		}
		for _, lb := range a.LignesBudget {
			if strings.TrimSpace(lb.Libelle) == "" {
				return models.ErrValidation("chaque ligne budgétaire doit avoir un libellé")
			}
		}
	}
	for _, r := range p.Risques {
		if strings.TrimSpace(r.Description) == "" {
			return models.ErrValidation("chaque risque doit avoir une description")
		}
	}
	return nil
}

// ValidateBrouillon : un brouillon n'exige qu'un titre.
func (p *ProjetPayload) ValidateBrouillon() error {
	if strings.TrimSpace(p.Titre) == "" {
		return models.ErrValidation("le titre du projet est requis")
	}
	return nil
}
