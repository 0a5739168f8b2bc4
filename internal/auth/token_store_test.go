package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_KeyHidesToken(t *testing.T) {
	store := NewTokenStore(nil)
	token := strings.Repeat("ab", TokenBytes)

	key := store.key(token)
	assert.True(t, strings.HasPrefix(key, accessTokenKeyPrefix))
	assert.Len(t, key, len(accessTokenKeyPrefix)+64)
	assert.NotContains(t, key, token)
	assert.Equal(t, key, store.key(token))
	assert.NotEqual(t, key, store.key(strings.ToUpper(token)))
}

func TestTokenStore_WithoutCacheBehavesLikeMiss(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	err := store.StoreIdentity(ctx, "token", Identity{UserID: uuid.New(), Username: "ana"}, IdentityCacheTTL)
	require.NoError(t, err)

	identity, err := store.GetIdentity(ctx, "token")
	assert.NoError(t, err)
	assert.Nil(t, identity)
}
