package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// HashPassword returns hex(SHA-256(password + salt)). The salt is a single
// static string shared by all rows; this matches the hashes already stored in
// portal_users and cannot change without invalidating every account.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares a candidate password against a stored hash
func CheckPassword(password, salt, hash string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}

// ValidatePassword checks minimum password strength at registration
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
