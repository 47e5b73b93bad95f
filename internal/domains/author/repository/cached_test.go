package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a JSON-encoding cache.Cache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestCachedRepository_GetByIDReadsThrough(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRepository()
	c := newMapCache()
	repo := NewCachedRepository(store, c)

	a := seedAuthor(t, repo, "A. Writer", "a@x.com")

	first, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.hits)
	assert.Contains(t, c.data, authorCacheKey(a.ID))

	second, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, first.Email, second.Email)
}

func TestCachedRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	repo := NewCachedRepository(NewMemoryRepository(), c)
	a := seedAuthor(t, repo, "A. Writer", "a@x.com")

	_, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)

	a.Name = "Renamed"
	_, err = repo.Update(ctx, a)
	require.NoError(t, err)
	assert.NotContains(t, c.data, authorCacheKey(a.ID))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.NotContains(t, c.data, authorCacheKey(a.ID))

	_, err = repo.GetByID(ctx, a.ID)
	assert.Error(t, err)
}

func TestNewCachedRepository_NilCache(t *testing.T) {
	store := NewMemoryRepository()
	assert.Same(t, store, NewCachedRepository(store, nil))
}
