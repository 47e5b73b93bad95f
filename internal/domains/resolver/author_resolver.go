package resolver

import (
	"context"
	"fmt"

	authorModel "bookgraph/internal/domains/author/model"
	bookModel "bookgraph/internal/domains/book/model"
	"bookgraph/internal/shared/utils"
)

// AuthorBooks returns every book referencing a, in store order.
func (r *Resolver) AuthorBooks(ctx context.Context, a *authorModel.Author) ([]*bookModel.Book, error) {
	books, err := r.books.Find(ctx, bookModel.BookFilter{AuthorIDs: []int64{a.ID}})
	if err != nil {
		return nil, fmt.Errorf("resolve books of author %d: %w", a.ID, err)
	}
	return books, nil
}

func (r *Resolver) ResolveAuthor(ctx context.Context, a *authorModel.Author) (*AuthorView, error) {
	books, err := r.AuthorBooks(ctx, a)
	if err != nil {
		return nil, err
	}
	return newAuthorView(a, books, r.now()), nil
}

// ResolveAuthors computes the aggregates of many authors from one batched
// book fetch for the distinct author ids.
func (r *Resolver) ResolveAuthors(ctx context.Context, authors []*authorModel.Author) ([]*AuthorView, error) {
	passLoaders := r.loaders(ctx)
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
		// Later book views in the same pass resolve these authors without a fetch.
		passLoaders.AuthorByID.Prime(a.ID, a)
	}
	grouped, err := passLoaders.BooksByAuthorID.LoadMany(ctx, utils.DedupeIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve books of %d authors: %w", len(authors), err)
	}

	now := r.now()
	views := make([]*AuthorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, newAuthorView(a, grouped[a.ID], now))
	}
	return views, nil
}

// GetAuthor returns apperr NotFound when the author does not exist.
func (r *Resolver) GetAuthor(ctx context.Context, id int64) (*AuthorView, error) {
	a, err := r.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.ResolveAuthor(ctx, a)
}

func (r *Resolver) ListAuthors(ctx context.Context, filter authorModel.AuthorFilter) ([]*AuthorView, error) {
	authors, err := r.authors.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return r.ResolveAuthors(ctx, authors)
}
