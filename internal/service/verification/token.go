package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tokenAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultTokenLength = 7
)

// Generates token value
type TokenGenerator func() (string, error)

// RandomTokenGenerator returns generator of alphanumeric case-sensitive tokens of the length
func RandomTokenGenerator(length int) TokenGenerator {
	return func() (string, error) {
		return randomToken(length)
	}
}

func randomToken(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("error while generate token. Err: %w", err)
		}
		b[i] = tokenAlphabet[n.Int64()]
	}

	return string(b), nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return false
		}
	}
	return s != ""
}
