package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed so stored hashes remain verifiable across releases.
const bcryptCost = 10

// HashPassword produces a salted one-way hash of the plaintext. The same
// plaintext yields a different stored hash on every call.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// Malformed hashes report false rather than an error, so attacker-controlled
// hash values never leak information through error content.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
