package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookgraph/internal/domains/author/model"
	"bookgraph/pkg/cache"
)

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	cacheTTL             = 15 * time.Minute
)

// cachedRepository adds cache-aside on GetByID, which serves only the
// author-scoped reads. GetByIDs and existence checks always hit the store:
// loader passes, Guard checks and the read before an update must see the
// store snapshot, not a cached one. Writes invalidate the entry.
type cachedRepository struct {
	RepositoryInterface
	cache cache.Cache
}

// NewCachedRepository wraps next with a read-through cache. A nil cache returns next.
func NewCachedRepository(next RepositoryInterface, c cache.Cache) RepositoryInterface {
	if c == nil {
		return next
	}
	return &cachedRepository{RepositoryInterface: next, cache: c}
}

func authorCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", authorCacheKeyPrefix, id)
}

func (r *cachedRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	key := authorCacheKey(id)

	var a model.Author
	found, err := r.cache.Get(ctx, key, &a)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache read failed")
	}
	if err == nil && found {
		return &a, nil
	}

	stored, err := r.RepositoryInterface.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, stored, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache write failed")
	}
	return stored, nil
}

func (r *cachedRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	updated, err := r.RepositoryInterface.Update(ctx, a)
	r.invalidate(ctx, a.ID)
	return updated, err
}

func (r *cachedRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.RepositoryInterface.Delete(ctx, id)
	r.invalidate(ctx, id)
	return deleted, err
}

func (r *cachedRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, authorCacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("author_id", id).Msg("author cache invalidation failed")
	}
}
