package repo

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fpbg/internal/db"
	"fpbg/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, d.AutoMigrate(
		&models.Utilisateur{}, &models.Organisation{}, &models.DemandeSubvention{},
	))
	return d
}

func seedOrg(t *testing.T, d *gorm.DB) *models.Organisation {
	t.Helper()
	u := models.Utilisateur{Email: "o@b.com", MotDePasse: "x", TypeCompte: models.CompteOrganisation, Statut: models.StatutActif}
	require.NoError(t, d.Create(&u).Error)
	org := models.Organisation{UtilisateurID: u.ID, Nom: "ONG Forêt"}
	require.NoError(t, d.Create(&org).Error)
	return &org
}

func TestOrganisationDeleteAvecProjets(t *testing.T) {
	d := newTestDB(t)
	s := NewOrganisationStore(d)
	ctx := context.Background()
	org := seedOrg(t, d)

	dem := models.DemandeSubvention{
		OrganisationID: org.ID, UtilisateurID: org.UtilisateurID,
		Statut: models.DemandeSoumise, Titre: "Projet",
	}
	require.NoError(t, d.Create(&dem).Error)

	err := s.Delete(ctx, org.ID)
	var ae *models.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)

	// Sans projet, la suppression passe.
	require.NoError(t, d.Delete(&dem).Error)
	require.NoError(t, s.Delete(ctx, org.ID))
	_, err = s.GetByID(ctx, org.ID)
	assert.Error(t, err)
}

func TestOrganisationUpdateProfilSeulement(t *testing.T) {
	d := newTestDB(t)
	s := NewOrganisationStore(d)
	ctx := context.Background()
	org := seedOrg(t, d)

	maj := models.Organisation{
		Nom: "ONG Forêt et Mer", Sigle: "OFM",
		UtilisateurID: 999, // ne doit pas être pris en compte
	}
	got, err := s.Update(ctx, org.ID, &maj)
	require.NoError(t, err)
	assert.Equal(t, "ONG Forêt et Mer", got.Nom)
	assert.Equal(t, "OFM", got.Sigle)
	assert.Equal(t, org.UtilisateurID, got.UtilisateurID, "le rattachement ne change jamais")
}

func TestUserStoreIdentifiantsPris(t *testing.T) {
	d := newTestDB(t)
	s := NewUserStore(d)
	ctx := context.Background()

	nu := "aline"
	u := models.Utilisateur{Email: "a@b.com", NomUtilisateur: &nu, MotDePasse: "x",
		TypeCompte: models.CompteAgent, Statut: models.StatutActif}
	require.NoError(t, d.Create(&u).Error)

	emailPris, nomPris, err := s.IdentifiantsPris(ctx, "a@b.com", "autre")
	require.NoError(t, err)
	assert.True(t, emailPris)
	assert.False(t, nomPris)

	emailPris, nomPris, err = s.IdentifiantsPris(ctx, "libre@b.com", "aline")
	require.NoError(t, err)
	assert.False(t, emailPris)
	assert.True(t, nomPris)

	// Deux comptes sans pseudo ne se gênent pas.
	u2 := models.Utilisateur{Email: "b@b.com", MotDePasse: "x",
		TypeCompte: models.CompteAgent, Statut: models.StatutActif}
	require.NoError(t, d.Create(&u2).Error)
	u3 := models.Utilisateur{Email: "c@b.com", MotDePasse: "x",
		TypeCompte: models.CompteAgent, Statut: models.StatutActif}
	assert.NoError(t, d.Create(&u3).Error)
}
