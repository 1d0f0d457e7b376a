package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCache is the minimal in-memory Cache used by the tests in this package
type stubCache struct {
	mu   sync.Mutex
	data map[string]string

	getErr error
	setErr error
}

func newStubCache() *stubCache {
	return &stubCache{data: map[string]string{}}
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *stubCache) GetRaw(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	return raw, ok, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = string(raw)
	c.mu.Unlock()
	return nil
}

func (c *stubCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *stubCache) Increment(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := strconv.ParseInt(c.data[key], 10, 64)
	current++
	c.data[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *stubCache) Ping(ctx context.Context) error { return nil }

func TestVersions_CreatedAtOneAndStable(t *testing.T) {
	v := NewVersions(newStubCache())
	ctx := context.Background()

	first, err := v.Get(ctx, "posts:list")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first, "absent counter starts at 1")

	again, err := v.Get(ctx, "posts:list")
	require.NoError(t, err)
	assert.Equal(t, first, again, "repeated reads never advance the counter")
}

func TestVersions_BumpIsMonotonic(t *testing.T) {
	v := NewVersions(newStubCache())
	ctx := context.Background()

	prev, err := v.Get(ctx, "posts:list")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := v.Bump(ctx, "posts:list")
		require.NoError(t, err)
		assert.Equal(t, prev+1, next)
		prev = next
	}
}

func TestVersions_NamespacesAreIndependent(t *testing.T) {
	v := NewVersions(newStubCache())
	ctx := context.Background()

	_, err := v.Bump(ctx, "posts:list")
	require.NoError(t, err)
	_, err = v.Bump(ctx, "posts:list")
	require.NoError(t, err)

	detail, err := v.Get(ctx, "posts:detail")
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail, "bumping one namespace must not move another")
}

func TestVersions_UnparseableCounterIsDroppedAndRestarted(t *testing.T) {
	stub := newStubCache()
	key := versionKeyPrefix + "posts:list"
	stub.data[key] = "garbage"
	v := NewVersions(stub)

	version, err := v.Get(context.Background(), "posts:list")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "1", stub.data[key], "the bad value must be replaced, not incremented in place")
}
