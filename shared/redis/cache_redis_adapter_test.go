package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPattern(t *testing.T) {
	assert.Equal(t, "bmv-docs:documents:*", scanPattern("bmv-docs:documents:"))
	assert.Equal(t, `a\*b\?c\[d\]*`, scanPattern("a*b?c[d]"))
}

func TestKeyPrefixing(t *testing.T) {
	a := NewCacheAdapter(nil, "bmv-docs:")
	assert.Equal(t, "bmv-docs:folders:root", a.fullKey("folders:root"))
	assert.Equal(t, "folders:root", a.shortKey("bmv-docs:folders:root"))
	assert.NoError(t, a.Close())
}

// интеграционный тест, нужен живой redis в REDIS_TEST_ADDR
func TestCacheRedisAdapterIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	ctx := context.Background()
	prefix := "test-" + uuid.NewString() + ":"
	a := NewCacheAdapter(redis.NewClient(&redis.Options{Addr: addr}), prefix)
	defer a.Close()

	require.NoError(t, a.Set(ctx, "documents:f1", []byte("one"), time.Minute))
	require.NoError(t, a.Set(ctx, "documents:folderId=f1&q=x", []byte("two"), time.Minute))
	require.NoError(t, a.Set(ctx, "documents:f2", []byte("three"), time.Minute))
	require.NoError(t, a.Set(ctx, "folders:root", []byte("four"), time.Minute))

	data, err := a.GetBytes(ctx, "documents:f1")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	_, err = a.GetBytes(ctx, "documents:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, a.DeleteMatching(ctx, "documents:", func(key string) bool {
		return strings.Contains(key, "f1")
	}))
	ok, err := a.Exists(ctx, "documents:f1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = a.Exists(ctx, "documents:f2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.DeleteByPrefix(ctx, "documents:"))
	ok, err = a.Exists(ctx, "documents:f2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.Exists(ctx, "folders:root")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, a.Delete(ctx, "folders:root"))
}
