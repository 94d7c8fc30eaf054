package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"taskapp/internal/adapter/cache"
	"taskapp/internal/core/port"
	. "taskapp/pkg/test"
)

func TestRedisStore(t *testing.T) {
	SkipIntegration(t)
	ctx := context.Background()

	addr := StartContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}, "6379/tcp")

	store, err := cache.DialRedis(ctx, addr, "taskapp:test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx, "tasks:all")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "tasks:all", []byte("[]"), 0))
	require.NoError(t, store.Set(ctx, "tasks:id:abc", []byte("{}"), 0))
	require.NoError(t, store.Set(ctx, "stats", []byte("{}"), 0))

	got, err := store.Get(ctx, "tasks:all")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, store.DeleteByPrefix(ctx, cache.KeyPrefix))

	_, err = store.Get(ctx, "tasks:id:abc")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	_, err = store.Get(ctx, "stats")
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "stats"))
	_, err = store.Get(ctx, "stats")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}
