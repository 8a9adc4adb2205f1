package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenererOTP produit un code numérique de n chiffres, zéros de tête compris
// ("042311" est valide), tiré de crypto/rand.
func GenererOTP(n int) (string, error) {
	if n <= 0 {
		n = 6
	}
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
