package flags

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store, user int) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, user, "onboarding")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, user, "onboarding", "done"))
	require.NoError(t, s.Set(ctx, user, "theme", "dark"))
	require.NoError(t, s.Set(ctx, user+1, "theme", "light"))

	v, ok, err := s.Get(ctx, user, "onboarding")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "done", v)

	all, err := s.All(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"onboarding": "done", "theme": "dark"}, all)

	require.NoError(t, s.Delete(ctx, user, "theme"))
	require.NoError(t, s.Delete(ctx, user, "never-set"))
	all, err = s.All(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"onboarding": "done"}, all)

	other, _, err := s.Get(ctx, user+1, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", other)

	assert.ErrorIs(t, s.Set(ctx, user, "", "x"), ErrEmptyKey)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(), 1)
}

func TestMemoryStore_AllOfUnknownUser(t *testing.T) {
	all, err := NewMemoryStore().All(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	const user = 90001
	ctx := context.Background()
	rdb.Del(ctx, hashKey(user), hashKey(user+1))
	t.Cleanup(func() { rdb.Del(ctx, hashKey(user), hashKey(user+1)) })

	exerciseStore(t, NewRedisStore(rdb), user)
}
