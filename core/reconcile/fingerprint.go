package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA-256 digest of title followed by author.
// It is unsalted so that fingerprints stored by earlier runs stay comparable.
func Fingerprint(title, author string) string {
	sum := sha256.Sum256([]byte(title + author))
	return hex.EncodeToString(sum[:])
}
