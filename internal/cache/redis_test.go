package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewClient_FailsWithoutRedis(t *testing.T) {
	_, err := NewClient("127.0.0.1:1")
	assert.Error(t, err)
}

func TestQueryKey_HidesToken(t *testing.T) {
	key := QueryKey("products", "secret-token", "/products?page=1")

	assert.True(t, strings.HasPrefix(key, "query:products:"))
	assert.True(t, strings.HasSuffix(key, ":/products?page=1"))
	assert.NotContains(t, key, "secret-token")
	assert.NotEqual(t, key, QueryKey("products", "other-token", "/products?page=1"))
}

func TestGetSet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`), time.Second))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	mr.FastForward(2 * time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInvalidateResource(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	productsA := QueryKey("products", "a", "/products?page=1")
	productsB := QueryKey("products", "b", "/products?page=2")
	users := QueryKey("users", "a", "/users?page=1")
	for _, k := range []string{productsA, productsB, users} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, c.InvalidateResource(ctx, "products"))

	_, err := c.Get(ctx, productsA)
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, productsB)
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, users)
	assert.NoError(t, err)

	assert.NoError(t, c.InvalidateResource(ctx, "nothing-cached"))
}

func TestIsRateLimited(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.False(t, c.IsRateLimited(ctx, "login:10.0.0.1", 3, time.Minute))
	}
	assert.True(t, c.IsRateLimited(ctx, "login:10.0.0.1", 3, time.Minute))
	assert.False(t, c.IsRateLimited(ctx, "login:10.0.0.2", 3, time.Minute))

	mr.FastForward(2 * time.Minute)
	assert.False(t, c.IsRateLimited(ctx, "login:10.0.0.1", 3, time.Minute))
}
