package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost of 10 balances security against login latency; credential
// checks run on the hub goroutine, so this bounds login stalls.
const bcryptCost = 10

// HashCredential generates a bcrypt hash of the supplied password.
func HashCredential(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hash), nil
}

// CompareCredential compares a stored bcrypt hash with a plaintext password.
func CompareCredential(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
