package middleware

import (
	"context"
	"net/http"
	"strings"

	"fpbg/internal/models"
)

// CookieSession est le nom du cookie httpOnly portant le jeton.
const CookieSession = "fpbg_token"

// Identity est l'identité décodée du jeton, portée par le contexte requête.
type Identity struct {
	UserID     uint
	Email      string
	TypeCompte string
}

func (id Identity) EstAdmin() bool {
	return id.TypeCompte == models.CompteAdmin || id.TypeCompte == models.CompteAgent
}

const identityKey ctxKey = "identity"

// Verifier valide un jeton signé et en extrait l'identité.
type Verifier func(token string) (Identity, error)

// TokenFromRequest lit le jeton depuis le cookie de session ou, à défaut,
// l'en-tête Authorization: Bearer.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieSession); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth rejette en 401 toute requête sans jeton valide et installe
// l'identité dans le contexte.
func RequireAuth(verify Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := TokenFromRequest(r)
			if tok == "" {
				models.WriteError(w, models.ErrUnauthorized("authentification requise"))
				return
			}
			id, err := verify(tok)
			if err != nil {
				models.WriteError(w, models.ErrUnauthorized("jeton invalide ou expiré"))
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin suppose RequireAuth déjà appliqué.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r)
		if !ok || !id.EstAdmin() {
			models.WriteError(w, models.ErrForbidden("réservé aux administrateurs"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}
