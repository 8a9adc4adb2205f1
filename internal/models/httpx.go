package models

import (
	"encoding/json"
	"net/http"
)

// ErrorBody est le corps JSON uniforme des réponses d'erreur.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"` // renseigné hors production
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError sérialise n'importe quelle erreur via la taxonomie centrale
// (voir erreurs.go) : *APIError passe tel quel, les erreurs GORM connues
// sont reclassées, le reste tombe en 500.
func WriteError(w http.ResponseWriter, err error) {
	ae := Classifier(err)
	body := ErrorBody{Error: ae.Message}
	if !EnProduction() && ae.Detail != "" {
		body.Detail = ae.Detail
	}
	WriteJSON(w, ae.Status, body)
}
