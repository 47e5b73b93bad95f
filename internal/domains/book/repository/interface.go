package repository

import (
	"context"

	"bookgraph/internal/domains/book/model"
)

// RepositoryInterface is the Book Store Accessor.
type RepositoryInterface interface {
	// GetByID returns apperr NotFound when the book does not exist.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// Find returns every book matching filter, ordered by id (store iteration order).
	Find(ctx context.Context, filter model.BookFilter) ([]*model.Book, error)

	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// Update returns apperr NotFound when the book does not exist.
	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, filter model.BookFilter) (int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}
