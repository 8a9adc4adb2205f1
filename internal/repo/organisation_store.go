package repo

import (
	"context"

	"gorm.io/gorm"

	"fpbg/internal/models"
)

type OrganisationStore struct{ db *gorm.DB }

func NewOrganisationStore(db *gorm.DB) *OrganisationStore { return &OrganisationStore{db: db} }

func (s *OrganisationStore) List(ctx context.Context) ([]models.Organisation, error) {
	var orgs []models.Organisation
	err := s.db.WithContext(ctx).Order("id").Find(&orgs).Error
	return orgs, err
}

func (s *OrganisationStore) GetByID(ctx context.Context, id uint) (*models.Organisation, error) {
	var org models.Organisation
	if err := s.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *OrganisationStore) GetByUtilisateur(ctx context.Context, userID uint) (*models.Organisation, error) {
	var org models.Organisation
	err := s.db.WithContext(ctx).Where("utilisateur_id = ?", userID).First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Update ne touche qu'aux champs de profil; jamais au rattachement utilisateur.
func (s *OrganisationStore) Update(ctx context.Context, id uint, maj *models.Organisation) (*models.Organisation, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	org.Nom = maj.Nom
	org.Sigle = maj.Sigle
	org.TypeOrganisation = maj.TypeOrganisation
	org.Adresse = maj.Adresse
	org.Telephone = maj.Telephone
	org.SiteWeb = maj.SiteWeb
	org.Description = maj.Description
	if err := s.db.WithContext(ctx).Save(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// Delete refuse la suppression tant que l'organisation possède des demandes.
func (s *OrganisationStore) Delete(ctx context.Context, id uint) error {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.DemandeSubvention{}).
		Where("organisation_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return models.ErrValidation("organisation avec des projets existants : suppression refusée")
	}
	return s.db.WithContext(ctx).Delete(org).Error
}
