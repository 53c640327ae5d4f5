package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	invitationTokenPrefix = "inv_"
	linkTokenPrefix       = "link_"
)

// generateToken returns prefix followed by 64 hex characters (256 bits of
// cryptographically secure randomness). Tokens are globally unique by
// construction; collisions are not checked for.
func generateToken(prefix string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}
