package projets

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
	"fpbg/internal/uploads"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, d.AutoMigrate(
		&models.Utilisateur{}, &models.Organisation{},
		&models.DemandeSubvention{}, &models.Activite{}, &models.SousActivite{},
		&models.LigneBudget{}, &models.Risque{}, &models.PieceJointe{}, &models.Cofinanceur{},
	))
	return d
}

func seedOrganisation(t *testing.T, d *gorm.DB) (userID uint) {
	t.Helper()
	u := models.Utilisateur{
		Email: "porteur@ong.ga", MotDePasse: "x",
		TypeCompte: models.CompteOrganisation, Statut: models.StatutActif,
	}
	require.NoError(t, d.Create(&u).Error)
	org := models.Organisation{UtilisateurID: u.ID, Nom: "ONG Forêt"}
	require.NoError(t, d.Create(&org).Error)
	return u.ID
}

func payloadComplet() *ProjetPayload {
	return &ProjetPayload{
		Titre:       "Restauration de mangrove",
		BudgetTotal: 25000,
		Activites: []ActivitePayload{
			{
				Titre: "Pépinière",
				SousActivites: []SousActivitePayload{
					{Titre: "Collecte de propagules"},
					{Titre: "Semis"},
				},
				LignesBudget: []LigneBudgetPayload{
					{Libelle: "Sachets", Quantite: 1000, CoutUnitaire: 0.5, Montant: 500},
				},
			},
			{
				Titre: "Plantation",
				LignesBudget: []LigneBudgetPayload{
					{Libelle: "Transport", Montant: 1200},
					{Libelle: "Main d'œuvre", Montant: 3000},
				},
			},
		},
		Risques: []RisquePayload{
			{Description: "Marées exceptionnelles", Attenuation: "Calendrier adapté"},
			{Description: "Vandalisme"},
		},
		Collaborateurs: []CollaborateurPayload{
			{Nom: "Commune de Port-Gentil", Montant: 5000},
		},
	}
}

func TestSoumettreCompteEtOrdre(t *testing.T) {
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	s := NewStore(d)
	ctx := context.Background()

	fichiers := []uploads.Fichier{
		{TypeDocument: models.DocStatuts, NomFichier: "statuts.pdf", Chemin: "/tmp/x", URL: "/uploads/projets/x", TypeMime: "application/pdf", Taille: 100},
	}
	created, err := s.Soumettre(ctx, payloadComplet(), fichiers, userID)
	require.NoError(t, err)
	assert.Equal(t, models.DemandeSoumise, created.Statut)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// 2 activités, ordres 0 et 1.
	require.Len(t, got.Activites, 2)
	for i, a := range got.Activites {
		assert.Equal(t, i, a.Ordre)
	}
	// Σ sous-activités = 2, ordres zéro-basés par parent.
	require.Len(t, got.Activites[0].SousActivites, 2)
	assert.Equal(t, 0, got.Activites[0].SousActivites[0].Ordre)
	assert.Equal(t, 1, got.Activites[0].SousActivites[1].Ordre)
	assert.Empty(t, got.Activites[1].SousActivites)
	// Lignes budget : 1 puis 2, chacune ordonnée dans son activité.
	require.Len(t, got.Activites[0].LignesBudget, 1)
	require.Len(t, got.Activites[1].LignesBudget, 2)
	assert.Equal(t, 0, got.Activites[1].LignesBudget[0].Ordre)
	assert.Equal(t, 1, got.Activites[1].LignesBudget[1].Ordre)
	// Risques ordonnés.
	require.Len(t, got.Risques, 2)
	assert.Equal(t, 0, got.Risques[0].Ordre)
	assert.Equal(t, 1, got.Risques[1].Ordre)
	// Pièce jointe et cofinanceur.
	require.Len(t, got.Pieces, 1)
	assert.Equal(t, models.DocStatuts, got.Pieces[0].TypeDocument)
	require.Len(t, got.Cofinanceurs, 1)
	assert.Equal(t, "Commune de Port-Gentil", got.Cofinanceurs[0].Nom)
}

func TestSoumettreSansOrganisation(t *testing.T) {
	d := newTestDB(t)
	u := models.Utilisateur{Email: "seul@b.com", MotDePasse: "x", TypeCompte: models.CompteAgent, Statut: models.StatutActif}
	require.NoError(t, d.Create(&u).Error)

	_, err := NewStore(d).Soumettre(context.Background(), payloadComplet(), nil, u.ID)
	var ae *models.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)

	// Rien n'a été écrit.
	var n int64
	require.NoError(t, d.Model(&models.DemandeSubvention{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSoumettreRollbackSurEchecEnfant(t *testing.T) {
	d := newTestDB(t)
	userID := seedOrganisation(t, d)

	// L'insertion des cofinanceurs échoue en pleine transaction : la table
	// a disparu. Ni la demande ni ses activités ne doivent survivre.
	require.NoError(t, d.Migrator().DropTable(&models.Cofinanceur{}))

	_, err := NewStore(d).Soumettre(context.Background(), payloadComplet(), nil, userID)
	require.Error(t, err)

	var n int64
	require.NoError(t, d.Model(&models.DemandeSubvention{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, d.Model(&models.Activite{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, d.Model(&models.SousActivite{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBrouillonPuisRevue(t *testing.T) {
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	s := NewStore(d)
	ctx := context.Background()

	brouillon, err := s.CreerBrouillon(ctx, &ProjetPayload{Titre: "Idée de projet"}, userID)
	require.NoError(t, err)
	assert.Equal(t, models.DemandeBrouillon, brouillon.Statut)

	// Un brouillon ne peut pas passer directement en revue.
	_, err = s.ChangerStatut(ctx, brouillon.ID, models.DemandeEnRevue)
	var ae *models.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)

	soumis, err := s.Soumettre(ctx, payloadComplet(), nil, userID)
	require.NoError(t, err)
	enRevue, err := s.ChangerStatut(ctx, soumis.ID, models.DemandeEnRevue)
	require.NoError(t, err)
	assert.Equal(t, models.DemandeEnRevue, enRevue.Statut)
	approuve, err := s.ChangerStatut(ctx, soumis.ID, models.DemandeApprouvee)
	require.NoError(t, err)
	assert.Equal(t, models.DemandeApprouvee, approuve.Statut)
}

func TestListParUtilisateur(t *testing.T) {
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	s := NewStore(d)
	ctx := context.Background()

	_, err := s.Soumettre(ctx, payloadComplet(), nil, userID)
	require.NoError(t, err)
	_, err = s.Soumettre(ctx, payloadComplet(), nil, userID)
	require.NoError(t, err)

	// Pas d'idempotence : deux soumissions, deux demandes.
	ds, err := s.ListPourUtilisateur(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, ds, 2)

	autres, err := s.ListPourUtilisateur(ctx, userID+99)
	require.NoError(t, err)
	assert.Empty(t, autres)
}

func TestDeleteDemande(t *testing.T) {
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	s := NewStore(d)
	ctx := context.Background()

	created, err := s.Soumettre(ctx, payloadComplet(), nil, userID)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.GetByID(ctx, created.ID)
	var ae *models.APIError
	require.ErrorAs(t, models.Classifier(err), &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}
