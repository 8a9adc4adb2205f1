package auth

import "golang.org/x/crypto/bcrypt"

// Coût bcrypt aligné sur le facteur 12 utilisé par le frontal historique.
const bcryptCost = 12

func HashPassword(clair string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(clair), bcryptCost)
	return string(h), err
}

func CheckPassword(hash, clair string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(clair)) == nil
}
