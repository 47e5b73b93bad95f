package service

import (
	"context"

	"bookgraph/internal/domains/author/model"
	"bookgraph/internal/shared"
)

// ServiceInterface is the Author command service.
// Write errors are *apperr.Error values returned verbatim to the caller.
type ServiceInterface interface {
	// Create validates, checks email uniqueness and inserts.
	// Errors: Validation, DuplicateKey
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)

	// GetByID errors: NotFound
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// Update applies only the supplied fields and refreshes UpdatedAt.
	// Errors: Validation, NotFound, DuplicateKey
	Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error)

	// Delete reports whether the author existed.
	// Errors: DependencyConflict while any book references the author
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteAuthorsWithoutBooks deletes every author that has no books, one by one.
	// Each item succeeds or fails on its own; nothing is rolled back.
	DeleteAuthorsWithoutBooks(ctx context.Context) (*shared.BulkResult, error)
}
