package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quizfit/internal/cache"
)

const (
	accessTokenKeyPrefix = "access_token:"

	// IdentityCacheTTL bounds how long a resolved token stays in Redis.
	IdentityCacheTTL = 5 * time.Minute
)

// Identity is the cached result of resolving an access token.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// TokenStoreInterface defines the interface for token lookup caching.
type TokenStoreInterface interface {
	StoreIdentity(ctx context.Context, token string, identity Identity, ttl time.Duration) error
	GetIdentity(ctx context.Context, token string) (*Identity, error)
}

// TokenStore caches token -> identity lookups in Redis.
// Keys are derived from a SHA-256 of the token so raw credentials never reach the cache.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

func (s *TokenStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return accessTokenKeyPrefix + hex.EncodeToString(sum[:])
}

// StoreIdentity caches the identity resolved for token.
func (s *TokenStore) StoreIdentity(ctx context.Context, token string, identity Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return s.cache.Set(ctx, s.key(token), payload, ttl)
}

// GetIdentity returns the cached identity for token, or nil on a cache miss.
func (s *TokenStore) GetIdentity(ctx context.Context, token string) (*Identity, error) {
	data, err := s.cache.Get(ctx, s.key(token))
	if err != nil || data == nil {
		return nil, err
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	if identity.UserID == uuid.Nil {
		return nil, nil
	}
	return &identity, nil
}
