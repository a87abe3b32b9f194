package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCaseKey returns a filesystem-safe identifier for a case ID.
func HashCaseKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
