// Package uploads écrit les pièces jointes sur disque sous un nom généré et
// expose leur chemin public /uploads/projets/<nom>.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fpbg/internal/models"
)

// PrefixeAttachment est le préfixe des champs de fichier du formulaire :
// attachment_STATUTS, attachment_AGREMENT, ... Le champ CV[] est traité à part.
const PrefixeAttachment = "attachment_"

// Types MIME acceptés : PDF, Word, Excel, JPEG, PNG.
var mimesAutorises = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/jpeg": true,
	"image/png":  true,
}

// Fichier décrit une pièce sauvegardée, prête à être enregistrée en base.
type Fichier struct {
	TypeDocument string
	NomFichier   string // nom d'origine côté client
	Chemin       string // chemin disque
	URL          string // chemin public
	TypeMime     string
	Taille       int64
}

type Saver struct {
	dir     string // racine des uploads
	maxSize int64  // octets
}

func NewSaver(dir string, maxSizeMB int64) *Saver {
	return &Saver{dir: dir, maxSize: maxSizeMB << 20}
}

// ResoudreTypeDocument déduit le type de document d'un nom de champ
// multipart. Renvoie false pour une clé inconnue : l'appelant l'ignore
// sans faire échouer la soumission.
func ResoudreTypeDocument(field string) (string, bool) {
	if field == "CV[]" || field == "CV" {
		return models.DocCV, true
	}
	if !strings.HasPrefix(field, PrefixeAttachment) {
		return "", false
	}
	key := strings.TrimPrefix(field, PrefixeAttachment)
	if !models.TypesDocumentAutorises[key] {
		return "", false
	}
	return key, true
}

// Save contrôle type MIME et taille puis écrit le fichier sous
// <dir>/projets/<uuid><ext>.
func (s *Saver) Save(fh *multipart.FileHeader, typeDocument string) (*Fichier, error) {
	if fh.Size > s.maxSize {
		return nil, models.ErrValidation(fmt.Sprintf("fichier %s trop volumineux (max %d Mo)", fh.Filename, s.maxSize>>20))
	}
	mime := fh.Header.Get("Content-Type")
	if !mimesAutorises[mime] {
		return nil, models.ErrValidation(fmt.Sprintf("type de fichier non autorisé : %s", mime))
	}

	destDir := filepath.Join(s.dir, "projets")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}
	nom := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	chemin := filepath.Join(destDir, nom)

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	dst, err := os.Create(chemin)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(chemin)
		return nil, err
	}

	return &Fichier{
		TypeDocument: typeDocument,
		NomFichier:   fh.Filename,
		Chemin:       chemin,
		URL:          "/uploads/projets/" + nom,
		TypeMime:     mime,
		Taille:       fh.Size,
	}, nil
}

// Dir expose la racine pour le montage du FileServer.
func (s *Saver) Dir() string { return s.dir }
