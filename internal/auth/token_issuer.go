package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// TokenBytes is the amount of random data behind every access token.
// Hex encoding doubles it, so tokens are 256 characters long.
const TokenBytes = 128

// TokenIssuer generates opaque access tokens.
type TokenIssuer interface {
	Issue() (string, error)
}

// RandomTokenIssuer draws tokens from a cryptographically secure source.
type RandomTokenIssuer struct {
	reader io.Reader
}

// Ensure RandomTokenIssuer implements TokenIssuer
var _ TokenIssuer = (*RandomTokenIssuer)(nil)

// NewTokenIssuer creates an issuer reading from crypto/rand.
func NewTokenIssuer() *RandomTokenIssuer {
	return &RandomTokenIssuer{reader: rand.Reader}
}

// Issue returns a new hex-encoded token.
func (i *RandomTokenIssuer) Issue() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(i.reader, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
