// Package reminderkey generates the short keys users type to address a
// reminder. The alphabet drops visually confusable characters (0/O, 1/I).
package reminderkey

import (
	"crypto/rand"
	"fmt"
)

const (
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	Length   = 8
)

// Generate returns a random fixed-length key.
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	key := make([]byte, Length)
	for i, b := range buf {
		key[i] = Alphabet[b&31]
	}
	return string(key), nil
}
