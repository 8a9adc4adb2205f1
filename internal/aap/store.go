package aap

import (
	"context"

	"gorm.io/gorm"

	"fpbg/internal/models"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Subventions").
		Preload("Subventions.Cycle", func(db *gorm.DB) *gorm.DB { return db.Order("ordre") }).
		Preload("Thematiques")
}

// Create insère l'appel et tous ses enfants dans une transaction.
func (s *Store) Create(ctx context.Context, p *AppelPayload) (*models.AppelProjets, error) {
	a := p.versModele()
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(a).Error
	}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) List(ctx context.Context, actifsSeulement bool) ([]models.AppelProjets, error) {
	q := s.preload(ctx).Order("id desc")
	if actifsSeulement {
		q = q.Where("is_active = ?", true)
	}
	var as []models.AppelProjets
	err := q.Find(&as).Error
	return as, err
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.AppelProjets, error) {
	var a models.AppelProjets
	if err := s.preload(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Update remplace scalaires et collections filles dans une transaction :
// l'édition d'un appel repart toujours du formulaire complet.
func (s *Store) Update(ctx context.Context, id uint, p *AppelPayload) (*models.AppelProjets, error) {
	existant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	neuf := p.versModele()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existant.Titre = neuf.Titre
		existant.Description = neuf.Description
		if p.IsActive != nil {
			existant.IsActive = *p.IsActive
		}
		if err := tx.Omit("Subventions", "Thematiques").Save(existant).Error; err != nil {
			return err
		}
		// Remplacement intégral des enfants.
		for i := range existant.Subventions {
			if err := tx.Select("Cycle").Delete(&existant.Subventions[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("appel_projets_id = ?", id).Delete(&models.Thematique{}).Error; err != nil {
			return err
		}
		for i := range neuf.Subventions {
			neuf.Subventions[i].AppelProjetsID = id
			if err := tx.Create(&neuf.Subventions[i]).Error; err != nil {
				return err
			}
		}
		for i := range neuf.Thematiques {
			neuf.Thematiques[i].AppelProjetsID = id
			if err := tx.Create(&neuf.Thematiques[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Toggle inverse IsActive et renvoie l'état complet mis à jour.
func (s *Store) Toggle(ctx context.Context, id uint) (*models.AppelProjets, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.AppelProjets{}).
		Where("id = ?", id).Update("is_active", !a.IsActive).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete supprime l'appel et, par cascade applicative, ses enfants.
func (s *Store) Delete(ctx context.Context, id uint) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range a.Subventions {
			if err := tx.Select("Cycle").Delete(&a.Subventions[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("appel_projets_id = ?", id).Delete(&models.Thematique{}).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}
