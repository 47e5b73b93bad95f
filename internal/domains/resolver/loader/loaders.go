package loader

import (
	"context"
	"fmt"

	authorModel "bookgraph/internal/domains/author/model"
	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
)

// Loaders is the set of loaders of one resolution pass.
type Loaders struct {
	AuthorByID      *Loader[int64, *authorModel.Author]
	BooksByAuthorID *Loader[int64, []*bookModel.Book]
}

// NewLoaders builds fresh loaders over the two store accessors.
func NewLoaders(authors authorRepo.RepositoryInterface, books bookRepo.RepositoryInterface) *Loaders {
	return &Loaders{
		AuthorByID: New(func(ctx context.Context, ids []int64) (map[int64]*authorModel.Author, error) {
			found, err := authors.GetByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("batch load authors: %w", err)
			}
			return found, nil
		}),
		BooksByAuthorID: New(func(ctx context.Context, ids []int64) (map[int64][]*bookModel.Book, error) {
			list, err := books.Find(ctx, bookModel.BookFilter{AuthorIDs: ids})
			if err != nil {
				return nil, fmt.Errorf("batch load books by author: %w", err)
			}
			// Every requested author has an entry; no books is an empty list, not a miss.
			grouped := make(map[int64][]*bookModel.Book, len(ids))
			for _, id := range ids {
				grouped[id] = []*bookModel.Book{}
			}
			for _, b := range list {
				grouped[b.AuthorID] = append(grouped[b.AuthorID], b)
			}
			return grouped, nil
		}),
	}
}
