package projets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpbg/internal/logs"
	"fpbg/internal/middleware"
	"fpbg/internal/models"
	"fpbg/internal/uploads"
)

// verifieur de test : tout jeton "porteur" vaut l'utilisateur donné.
func stubVerifier(userID uint, typeCompte string) middleware.Verifier {
	return func(string) (middleware.Identity, error) {
		return middleware.Identity{UserID: userID, Email: "t@t", TypeCompte: typeCompte}, nil
	}
}

func TestSubmitMultipart(t *testing.T) {
	logs.Init(logs.Options{Level: "error"})
	d := newTestDB(t)
	userID := seedOrganisation(t, d)

	h := NewHandler(NewStore(d), uploads.NewSaver(t.TempDir(), 10))
	r := mux.NewRouter()
	RegisterRoutes(r, h, stubVerifier(userID, models.CompteOrganisation))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	raw, err := json.Marshal(payloadComplet())
	require.NoError(t, err)
	require.NoError(t, w.WriteField("projectData", string(raw)))

	ajoutFichier := func(field, nom, mime string) {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+nom+`"`)
		hdr.Set("Content-Type", mime)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("contenu"))
		require.NoError(t, err)
	}
	ajoutFichier("attachment_STATUTS", "statuts.pdf", "application/pdf")
	// Clé inconnue : doit être ignorée sans faire échouer la soumission.
	ajoutFichier("attachment_INCONNU", "mystere.pdf", "application/pdf")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projets/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer peu-importe")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Data models.DemandeSubvention `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.DemandeSoumise, body.Data.Statut)

	// Une seule pièce : la clé inconnue n'a pas créé de ligne.
	var n int64
	require.NoError(t, d.Model(&models.PieceJointe{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSubmitSansProjectData(t *testing.T) {
	logs.Init(logs.Options{Level: "error"})
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	h := NewHandler(NewStore(d), uploads.NewSaver(t.TempDir(), 10))
	r := mux.NewRouter()
	RegisterRoutes(r, h, stubVerifier(userID, models.CompteOrganisation))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projets/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDemandeAutorisation(t *testing.T) {
	logs.Init(logs.Options{Level: "error"})
	d := newTestDB(t)
	userID := seedOrganisation(t, d)
	s := NewStore(d)
	created, err := s.CreerBrouillon(context.Background(), &ProjetPayload{Titre: "Privé"}, userID)
	require.NoError(t, err)

	h := NewHandler(s, uploads.NewSaver(t.TempDir(), 10))

	url := fmt.Sprintf("/api/projets/%d", created.ID)

	// Un autre utilisateur non-admin se voit refuser l'accès.
	r := mux.NewRouter()
	RegisterRoutes(r, h, stubVerifier(userID+1, models.CompteOrganisation))
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Un admin passe.
	rAdmin := mux.NewRouter()
	RegisterRoutes(rAdmin, h, stubVerifier(userID+1, models.CompteAdmin))
	req = httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer x")
	rec = httptest.NewRecorder()
	rAdmin.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
