package repository

import (
	"context"

	"bookgraph/internal/domains/author/model"
)

// RepositoryInterface is the Author Store Accessor. Every method is a single-record
// operation or a read; no method spans records atomically.
type RepositoryInterface interface {
	// GetByID returns apperr NotFound when the author does not exist.
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// GetByIDs is the batch get-by-id used by the loaders.
	// Missing ids are absent from the map, never an error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Author, error)

	// Find returns every author matching filter, ordered by id.
	Find(ctx context.Context, filter model.AuthorFilter) ([]*model.Author, error)

	// Create assigns the id and returns the stored author.
	Create(ctx context.Context, a *model.Author) (*model.Author, error)

	// Update returns apperr NotFound when the author does not exist.
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	Count(ctx context.Context, filter model.AuthorFilter) (int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}
