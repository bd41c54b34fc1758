package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenStore_NilCacheFailsSafe(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	assert.NoError(t, store.StoreRefreshToken(ctx, "id", uuid.New(), time.Minute))
	_, err := store.GetRefreshToken(ctx, "id")
	assert.Error(t, err)

	revoked, err := store.IsAccessTokenBlacklisted(ctx, "id")
	assert.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, store.BlacklistAccessToken(ctx, "id", 0))
}
