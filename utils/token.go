package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateShareToken returns a 256-bit random token, hex encoded. Share
// tokens are bearer capabilities, so guessing resistance is the whole game.
func GenerateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
