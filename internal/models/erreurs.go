package models

import (
	"errors"
	"net/http"
	"os"

	"gorm.io/gorm"
)

// APIError : erreur applicative typée portant son statut HTTP. Les services
// renvoient des *APIError; les contrôleurs les transmettent sans les modifier
// à WriteError qui fait l'unique mise en forme.
type APIError struct {
	Status  int
	Message string
	Detail  string // message d'origine, exposé hors production seulement
}

func (e *APIError) Error() string { return e.Message }

func ErrValidation(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func ErrUnauthorized(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: msg}
}

func ErrForbidden(msg string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: msg}
}

func ErrNotFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}

func ErrConflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: msg}
}

func ErrInterne(msg string, cause error) *APIError {
	ae := &APIError{Status: http.StatusInternalServerError, Message: msg}
	if cause != nil {
		ae.Detail = cause.Error()
	}
	return ae
}

// Classifier rapproche une erreur quelconque de la taxonomie. Les violations
// de contrainte GORM (TranslateError activé à l'ouverture) sont reclassées :
// doublon → 409, référence invalide → 400, introuvable → 404.
func Classifier(err error) *APIError {
	var ae *APIError
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict("doublon : une valeur unique existe déjà")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrValidation("référence invalide")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound("ressource introuvable")
	default:
		return ErrInterne("erreur interne du serveur", err)
	}
}

// EnProduction pilote l'exposition du détail des erreurs.
func EnProduction() bool { return os.Getenv("APP_ENV") == "production" }
