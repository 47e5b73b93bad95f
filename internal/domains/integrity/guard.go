// Package integrity enforces the cross-store rules that neither store can
// enforce on its own: book-to-author references, author deletion blocked by
// dependent books, and author email uniqueness.
//
// Every check is read-then-decide against the accessors and is not atomic
// with the write that follows it. A concurrent write can invalidate a passed
// check; the resulting dangling references are reported by the Auditor.
package integrity

import (
	"context"
	"fmt"

	authorModel "bookgraph/internal/domains/author/model"
	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/shared/apperr"
)

// Guard is consulted by the command services before they mutate a store.
type Guard interface {
	// AssertAuthorExists fails with ReferenceNotFound on field author_id.
	AssertAuthorExists(ctx context.Context, authorID int64) error

	// AssertNoDependentBooks fails with DependencyConflict on relationship books.
	AssertNoDependentBooks(ctx context.Context, authorID int64) error

	// AssertEmailAvailable fails with DuplicateKey on field email when an author
	// other than excludingAuthorID holds email, ignoring case. Pass 0 on create.
	AssertEmailAvailable(ctx context.Context, email string, excludingAuthorID int64) error
}

type guard struct {
	authors authorRepo.RepositoryInterface
	books   bookRepo.RepositoryInterface
}

func NewGuard(authors authorRepo.RepositoryInterface, books bookRepo.RepositoryInterface) Guard {
	return &guard{authors: authors, books: books}
}

func (g *guard) AssertAuthorExists(ctx context.Context, authorID int64) error {
	exists, err := g.authors.ExistsByID(ctx, authorID)
	if err != nil {
		return fmt.Errorf("check author reference: %w", err)
	}
	if !exists {
		return apperr.ReferenceNotFound("author_id", authorID)
	}
	return nil
}

func (g *guard) AssertNoDependentBooks(ctx context.Context, authorID int64) error {
	count, err := g.books.Count(ctx, bookModel.BookFilter{AuthorIDs: []int64{authorID}})
	if err != nil {
		return fmt.Errorf("count dependent books: %w", err)
	}
	if count > 0 {
		return apperr.DependencyConflict("books", count)
	}
	return nil
}

func (g *guard) AssertEmailAvailable(ctx context.Context, email string, excludingAuthorID int64) error {
	holders, err := g.authors.Find(ctx, authorModel.AuthorFilter{Email: email})
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	for _, a := range holders {
		if a.ID != excludingAuthorID && a.HasEmail(email) {
			return apperr.DuplicateKey("email", email)
		}
	}
	return nil
}
