package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fpbg/internal/middleware"
	"fpbg/internal/models"
)

// Claims du jeton de session : identifiant, email, type de compte.
type Claims struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	TypeCompte string `json:"user_type"`
	jwt.RegisteredClaims
}

// Tokens émet et vérifie les jetons HMAC signés. Le jeton est l'unique
// artefact de session : aucun état serveur.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

func (t *Tokens) Issue(u *models.Utilisateur) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     u.ID,
		Email:      u.Email,
		TypeCompte: u.TypeCompte,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify implémente middleware.Verifier.
func (t *Tokens) Verify(raw string) (middleware.Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return middleware.Identity{}, errors.New("invalid token")
	}
	return middleware.Identity{
		UserID:     claims.UserID,
		Email:      claims.Email,
		TypeCompte: claims.TypeCompte,
	}, nil
}
