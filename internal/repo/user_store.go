package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"fpbg/internal/models"
	"fpbg/internal/pending"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

// FindByIdentifiant cherche par email puis par nom d'utilisateur. Les emails
// sont stockés en minuscules à l'inscription, la comparaison suit.
func (s *UserStore) FindByIdentifiant(ctx context.Context, ident string) (*models.Utilisateur, error) {
	var u models.Utilisateur
	err := s.db.WithContext(ctx).
		Where("email = ? OR nom_utilisateur = ?", strings.ToLower(ident), ident).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.Utilisateur, error) {
	var u models.Utilisateur
	err := s.db.WithContext(ctx).Preload("Organisation").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// IdentifiantsPris vérifie l'unicité d'email/nom d'utilisateur parmi les
// comptes persistés (les inscriptions en attente n'entrent pas en jeu :
// un second register pour le même email écrase la précédente).
func (s *UserStore) IdentifiantsPris(ctx context.Context, email, nomUtilisateur string) (emailPris, nomPris bool, err error) {
	var u models.Utilisateur
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	switch {
	case err == nil:
		emailPris = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = nil
	default:
		return false, false, err
	}
	if nomUtilisateur == "" {
		return emailPris, false, nil
	}
	err = s.db.WithContext(ctx).Where("nom_utilisateur = ?", nomUtilisateur).First(&u).Error
	switch {
	case err == nil:
		nomPris = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = nil
	default:
		return emailPris, false, err
	}
	return emailPris, nomPris, nil
}

// PromouvoirInscription crée le compte (et, voie organisation, son profil)
// dans une seule transaction, une fois l'OTP vérifié. Le compte naît ACTIF :
// la vérification a eu lieu avant toute écriture en base.
func (s *UserStore) PromouvoirInscription(ctx context.Context, reg *pending.Registration) (*models.Utilisateur, error) {
	u := models.Utilisateur{
		Email:      reg.Email,
		MotDePasse: reg.MotDePasse,
		Prenom:     reg.Prenom,
		Nom:        reg.Nom,
		Telephone:  reg.Telephone,
		TypeCompte: models.CompteAgent,
		Statut:     models.StatutActif,
	}
	if reg.NomUtilisateur != "" {
		nu := reg.NomUtilisateur
		u.NomUtilisateur = &nu
	}
	if reg.Type == pending.TypeOrganisation {
		u.TypeCompte = models.CompteOrganisation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if reg.Type != pending.TypeOrganisation {
			return nil
		}
		org := models.Organisation{
			UtilisateurID:    u.ID,
			Nom:              reg.OrgNom,
			Sigle:            reg.OrgSigle,
			TypeOrganisation: reg.OrgTypeOrganisation,
			Adresse:          reg.OrgAdresse,
			Telephone:        reg.OrgTelephone,
			SiteWeb:          reg.OrgSiteWeb,
			Description:      reg.OrgDescription,
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		u.Organisation = &org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
