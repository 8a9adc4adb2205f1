package projets

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fpbg/internal/models"
	"fpbg/internal/uploads"
)

// Délai maximal de la transaction de soumission : mieux vaut échouer vite
// que laisser un formulaire bloquer une connexion.
const txTimeout = 25 * time.Second

// Transitions de statut permises pour la revue administrative.
var transitions = map[string][]string{
	models.DemandeSoumise: {models.DemandeEnRevue},
	models.DemandeEnRevue: {models.DemandeApprouvee, models.DemandeRejetee},
}

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// organisationDe résout l'organisation de l'utilisateur soumetteur; toute
// soumission exige un profil organisation.
func (s *Store) organisationDe(ctx context.Context, userID uint) (*models.Organisation, error) {
	var org models.Organisation
	err := s.db.WithContext(ctx).Where("utilisateur_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound("aucune organisation associée à ce compte")
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// mapper construit l'agrégat complet à partir du DTO validé. Les champs
// Ordre suivent la position zéro-basée dans le formulaire et ne sont
// jamais recalculés ensuite.
func mapper(p *ProjetPayload, orgID, userID uint, statut string) *models.DemandeSubvention {
	d := &models.DemandeSubvention{
		OrganisationID:   orgID,
		UtilisateurID:    userID,
		Statut:           statut,
		Titre:            p.Titre,
		Localisation:     p.Localisation,
		Contexte:         p.Contexte,
		Objectifs:        p.Objectifs,
		Beneficiaires:    p.Beneficiaires,
		Durabilite:       p.Durabilite,
		DureeMois:        p.DureeMois,
		BudgetTotal:      p.BudgetTotal,
		ContributionFPBG: p.ContributionFPBG,
		Cofinancement:    p.Cofinancement,
	}
	for i, a := range p.Activites {
		act := models.Activite{Ordre: i, Titre: a.Titre, Description: a.Description}
		for j, sa := range a.SousActivites {
			act.SousActivites = append(act.SousActivites, models.SousActivite{
				Ordre: j, Titre: sa.Titre, Resultats: sa.Resultats,
			})
		}
		for j, lb := range a.LignesBudget {
			act.LignesBudget = append(act.LignesBudget, models.LigneBudget{
				Ordre: j, Libelle: lb.Libelle, Quantite: lb.Quantite,
				CoutUnitaire: lb.CoutUnitaire, Montant: lb.Montant,
			})
		}
		d.Activites = append(d.Activites, act)
	}
	for i, r := range p.Risques {
		d.Risques = append(d.Risques, models.Risque{
			Ordre: i, Description: r.Description, Attenuation: r.Attenuation,
		})
	}
	for _, c := range p.Collaborateurs {
		d.Cofinanceurs = append(d.Cofinanceurs, models.Cofinanceur{
			Nom: c.Nom, Contact: c.Contact, Montant: c.Montant,
		})
	}
	return d
}

// Soumettre enregistre la demande complète et toutes ses lignes filles dans
// une transaction unique : tout échec annule l'ensemble. Pas d'idempotence,
// chaque appel crée une nouvelle demande.
func (s *Store) Soumettre(ctx context.Context, p *ProjetPayload, fichiers []uploads.Fichier, userID uint) (*models.DemandeSubvention, error) {
	org, err := s.organisationDe(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := mapper(p, org.ID, userID, models.DemandeSoumise)
	for _, f := range fichiers {
		d.Pieces = append(d.Pieces, models.PieceJointe{
			TypeDocument: f.TypeDocument,
			NomFichier:   f.NomFichier,
			Chemin:       f.Chemin,
			URL:          f.URL,
			TypeMime:     f.TypeMime,
			Taille:       f.Taille,
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	err = s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		// GORM insère l'agrégat entier (demande + enfants) dans la transaction.
		return tx.Create(d).Error
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CreerBrouillon passe par le même mapper que Soumettre : un seul chemin de
// code pour les deux créations, seul le statut (et l'exigence de validation)
// diffère.
func (s *Store) CreerBrouillon(ctx context.Context, p *ProjetPayload, userID uint) (*models.DemandeSubvention, error) {
	org, err := s.organisationDe(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := mapper(p, org.ID, userID, models.DemandeBrouillon)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(d).Error
	}); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Activites", func(db *gorm.DB) *gorm.DB { return db.Order("ordre") }).
		Preload("Activites.SousActivites", func(db *gorm.DB) *gorm.DB { return db.Order("ordre") }).
		Preload("Activites.LignesBudget", func(db *gorm.DB) *gorm.DB { return db.Order("ordre") }).
		Preload("Risques", func(db *gorm.DB) *gorm.DB { return db.Order("ordre") }).
		Preload("Pieces").
		Preload("Cofinanceurs")
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.DemandeSubvention, error) {
	var d models.DemandeSubvention
	if err := s.preload(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListPourUtilisateur : les demandes soumises par ce compte.
func (s *Store) ListPourUtilisateur(ctx context.Context, userID uint) ([]models.DemandeSubvention, error) {
	var ds []models.DemandeSubvention
	err := s.preload(ctx).Where("utilisateur_id = ?", userID).Order("id desc").Find(&ds).Error
	return ds, err
}

// ListAll : vue administrateur.
func (s *Store) ListAll(ctx context.Context) ([]models.DemandeSubvention, error) {
	var ds []models.DemandeSubvention
	err := s.preload(ctx).Order("id desc").Find(&ds).Error
	return ds, err
}

// ChangerStatut applique une transition de revue permise.
func (s *Store) ChangerStatut(ctx context.Context, id uint, statut string) (*models.DemandeSubvention, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok := false
	for _, next := range transitions[d.Statut] {
		if next == statut {
			ok = true
			break
		}
	}
	if !ok {
		return nil, models.ErrValidation("transition de statut non permise : " + d.Statut + " → " + statut)
	}
	if err := s.db.WithContext(ctx).Model(d).Update("statut", statut).Error; err != nil {
		return nil, err
	}
	d.Statut = statut
	return d, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range d.Activites {
			if err := tx.Select("SousActivites", "LignesBudget").Delete(&d.Activites[i]).Error; err != nil {
				return err
			}
		}
		return tx.Select("Risques", "Pieces", "Cofinanceurs").Delete(d).Error
	})
}
