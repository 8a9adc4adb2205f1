package middleware

import (
	"net/http"
	"runtime/debug"

	"fpbg/internal/logs"
	"fpbg/internal/models"
)

// Recoverer intercepte une panique dans un handler, trace la pile
// et renvoie un 500 au format JSON uniforme.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				reqid := GetRequestID(r)
				logs.Logger.Errorf("panic: %v reqid=%s uri=%s method=%s\nstack:\n%s",
					rec, reqid, r.RequestURI, r.Method, string(debug.Stack()))
				models.WriteJSON(w, http.StatusInternalServerError, models.ErrorBody{
					Error: "erreur interne du serveur (voir les logs, reqid=" + reqid + ")",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
