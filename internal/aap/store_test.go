package aap

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

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
		&models.AppelProjets{}, &models.Subvention{}, &models.CycleStep{}, &models.Thematique{},
	))
	return d
}

func payloadAppel() *AppelPayload {
	limite := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	return &AppelPayload{
		Titre:       "Appel 2026 conservation côtière",
		Description: "Premier guichet de l'année",
		Subventions: []SubventionPayload{
			{
				TypeSubvention: "petite",
				MontantMin:     5000, MontantMax: 25000, DureeMaxMois: 12,
				DateLimite: &limite,
				Cycle: []CycleStepPayload{
					{Titre: "Note conceptuelle"},
					{Titre: "Proposition complète"},
					{Titre: "Décision"},
				},
			},
			{
				TypeSubvention: "moyenne",
				MontantMin:     25000, MontantMax: 100000, DureeMaxMois: 24,
			},
		},
		Thematiques: []ThematiquePayload{
			{Titre: "Mangroves", Points: []string{"restauration", "surveillance"}, TypeSubvention: "petite"},
		},
	}
}

func TestCreateImbrique(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	a, err := s.Create(ctx, payloadAppel())
	require.NoError(t, err)
	assert.True(t, a.IsActive)

	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Subventions, 2)
	require.Len(t, got.Subventions[0].Cycle, 3)
	for i, st := range got.Subventions[0].Cycle {
		assert.Equal(t, i, st.Ordre)
	}
	require.Len(t, got.Thematiques, 1)
	assert.JSONEq(t, `["restauration","surveillance"]`, string(got.Thematiques[0].Points))
}

func TestToggleDeuxFois(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	a, err := s.Create(ctx, payloadAppel())
	require.NoError(t, err)
	require.True(t, a.IsActive)

	off, err := s.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	// L'état complet revient à chaque bascule.
	assert.Len(t, off.Subventions, 2)

	on, err := s.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
}

func TestListActifsSeulement(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	a1, err := s.Create(ctx, payloadAppel())
	require.NoError(t, err)
	_, err = s.Create(ctx, payloadAppel())
	require.NoError(t, err)
	_, err = s.Toggle(ctx, a1.ID)
	require.NoError(t, err)

	tous, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, tous, 2)
	actifs, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, actifs, 1)
}

func TestUpdateRemplaceEnfants(t *testing.T) {
	d := newTestDB(t)
	s := NewStore(d)
	ctx := context.Background()

	a, err := s.Create(ctx, payloadAppel())
	require.NoError(t, err)

	maj := payloadAppel()
	maj.Titre = "Appel 2026 (révisé)"
	maj.Subventions = maj.Subventions[:1]
	maj.Subventions[0].Cycle = maj.Subventions[0].Cycle[:2]

	got, err := s.Update(ctx, a.ID, maj)
	require.NoError(t, err)
	assert.Equal(t, "Appel 2026 (révisé)", got.Titre)
	require.Len(t, got.Subventions, 1)
	assert.Len(t, got.Subventions[0].Cycle, 2)

	// Pas d'étapes de cycle orphelines.
	var n int64
	require.NoError(t, d.Model(&models.CycleStep{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestDeleteCascade(t *testing.T) {
	d := newTestDB(t)
	s := NewStore(d)
	ctx := context.Background()

	a, err := s.Create(ctx, payloadAppel())
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, a.ID))

	_, err = s.GetByID(ctx, a.ID)
	ae := models.Classifier(err)
	assert.Equal(t, http.StatusNotFound, ae.Status)

	var n int64
	require.NoError(t, d.Model(&models.CycleStep{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, d.Model(&models.Thematique{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestValidatePayload(t *testing.T) {
	p := &AppelPayload{}
	assert.Error(t, p.Validate())

	p.Titre = "Appel"
	p.Subventions = []SubventionPayload{{TypeSubvention: "petite", MontantMin: 10, MontantMax: 5}}
	assert.Error(t, p.Validate(), "fourchette inversée")

	p.Subventions[0].MontantMax = 50
	assert.NoError(t, p.Validate())
}
