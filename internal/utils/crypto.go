package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the sha256 hex digest of a raw token. Only digests are stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GenerateResetToken returns a raw reset token and its stored digest.
func GenerateResetToken() (raw, hashed string, err error) {
	raw, err = GenerateUniqueID(20)
	if err != nil {
		return "", "", err
	}
	return raw, HashToken(raw), nil
}
