package aap

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"fpbg/internal/models"
)

// AppelPayload : création/mise à jour d'un appel à projets avec ses guichets
// (et leurs cycles ordonnés) et ses thématiques, en une seule requête.
type AppelPayload struct {
	Titre       string `json:"titre"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`

	Subventions []SubventionPayload `json:"subventions"`
	Thematiques []ThematiquePayload `json:"thematiques"`
}

type SubventionPayload struct {
	TypeSubvention string             `json:"typeSubvention"`
	MontantMin     float64            `json:"montantMin"`
	MontantMax     float64            `json:"montantMax"`
	DureeMaxMois   int                `json:"dureeMaxMois"`
	DateLimite     *time.Time         `json:"dateLimite"`
	Cycle          []CycleStepPayload `json:"cycle"`
}

type CycleStepPayload struct {
	Titre       string     `json:"titre"`
	Description string     `json:"description"`
	DateDebut   *time.Time `json:"dateDebut"`
	DateFin     *time.Time `json:"dateFin"`
}

type ThematiquePayload struct {
	Titre          string   `json:"titre"`
	Points         []string `json:"points"`
	TypeSubvention string   `json:"typeSubvention"`
}

func (p *AppelPayload) Validate() error {
	if strings.TrimSpace(p.Titre) == "" {
		return models.ErrValidation("le titre de l'appel est requis")
	}
	for _, sub := range p.Subventions {
		if strings.TrimSpace(sub.TypeSubvention) == "" {
			return models.ErrValidation("chaque subvention doit porter un type")
		}
		if sub.MontantMax < sub.MontantMin {
			return models.ErrValidation("fourchette de montants invalide")
		}
		for _, st := range sub.Cycle {
			if strings.TrimSpace(st.Titre) == "" {
				return models.ErrValidation("chaque étape de cycle doit avoir un titre")
			}
		}
	}
	for _, th := range p.Thematiques {
		if strings.TrimSpace(th.Titre) == "" {
			return models.ErrValidation("chaque thématique doit avoir un titre")
		}
	}
	return nil
}

// versModele convertit le DTO en agrégat GORM, Ordre = index.
func (p *AppelPayload) versModele() *models.AppelProjets {
	a := &models.AppelProjets{
		Titre:       p.Titre,
		Description: p.Description,
		IsActive:    true,
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	for _, sub := range p.Subventions {
		sv := models.Subvention{
			TypeSubvention: sub.TypeSubvention,
			MontantMin:     sub.MontantMin,
			MontantMax:     sub.MontantMax,
			DureeMaxMois:   sub.DureeMaxMois,
			DateLimite:     sub.DateLimite,
		}
		for i, st := range sub.Cycle {
			sv.Cycle = append(sv.Cycle, models.CycleStep{
				Ordre:       i,
				Titre:       st.Titre,
				Description: st.Description,
				DateDebut:   st.DateDebut,
				DateFin:     st.DateFin,
			})
		}
		a.Subventions = append(a.Subventions, sv)
	}
	for _, th := range p.Thematiques {
		points, _ := json.Marshal(th.Points)
		a.Thematiques = append(a.Thematiques, models.Thematique{
			Titre:          th.Titre,
			Points:         datatypes.JSON(points),
			TypeSubvention: th.TypeSubvention,
		})
	}
	return a
}
