package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		s.Close()
	})

	return s, client
}

func TestRedisRevocationStore_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	s, client := mockRedisServer(t)
	store := NewRedisRevocationStore(client)

	revoked, err := store.IsRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "refresh-token", time.Hour))

	revoked, err = store.IsRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Токен не хранится в открытом виде.
	keys := s.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], revokedKeyPrefix))
	assert.NotContains(t, keys[0], "refresh-token")
	assert.Equal(t, time.Hour, s.TTL(keys[0]))
}

func TestRedisRevocationStore_ExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	s, client := mockRedisServer(t)
	store := NewRedisRevocationStore(client)

	require.NoError(t, store.Revoke(ctx, "refresh-token", time.Minute))
	s.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStore_ExpiredTokenIsNotStored(t *testing.T) {
	ctx := context.Background()
	s, client := mockRedisServer(t)
	store := NewRedisRevocationStore(client)

	require.NoError(t, store.Revoke(ctx, "refresh-token", 0))
	require.NoError(t, store.Revoke(ctx, "refresh-token", -time.Second))
	assert.Empty(t, s.Keys())
}

func TestRedisRevocationStore_ConnectionFailure(t *testing.T) {
	ctx := context.Background()
	s, client := mockRedisServer(t)
	store := NewRedisRevocationStore(client)
	s.Close()

	_, err := store.IsRevoked(ctx, "refresh-token")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(ctx, "refresh-token", time.Minute))
	assert.Error(t, store.Ping(ctx))
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client, err := NewClient(ctx, Config{Addr: s.Addr(), DialTimeout: time.Second})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = NewClient(ctx, Config{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
