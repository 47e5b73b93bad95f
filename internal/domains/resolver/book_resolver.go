package resolver

import (
	"context"
	"fmt"

	authorModel "bookgraph/internal/domains/author/model"
	bookModel "bookgraph/internal/domains/book/model"
	inventoryModel "bookgraph/internal/domains/inventory/model"
	"bookgraph/internal/shared/utils"
)

// BookAuthor looks up the author referenced by b through the pass loader, so
// a single book sees the same store snapshot as a list. A missing author is
// (nil, nil): the reference may have been broken by a concurrent delete.
func (r *Resolver) BookAuthor(ctx context.Context, b *bookModel.Book) (*authorModel.Author, error) {
	a, ok, err := r.loaders(ctx).AuthorByID.Load(ctx, b.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author of book %d: %w", b.ID, err)
	}
	if !ok {
		return nil, nil
	}
	return a, nil
}

// BookAuthors resolves the authors of many books with one batched fetch for
// the distinct author ids. Missing authors are absent from the map.
func (r *Resolver) BookAuthors(ctx context.Context, books []*bookModel.Book) (map[int64]*authorModel.Author, error) {
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.AuthorID)
	}
	found, err := r.loaders(ctx).AuthorByID.LoadMany(ctx, utils.DedupeIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve authors of %d books: %w", len(books), err)
	}
	return found, nil
}

// ResolveBook builds the view of a single book.
func (r *Resolver) ResolveBook(ctx context.Context, b *bookModel.Book) (*BookView, error) {
	a, err := r.BookAuthor(ctx, b)
	if err != nil {
		return nil, err
	}
	return newBookView(b, a, r.currency, r.now()), nil
}

// ResolveBooks builds views for books, preserving order.
func (r *Resolver) ResolveBooks(ctx context.Context, books []*bookModel.Book) ([]*BookView, error) {
	authors, err := r.BookAuthors(ctx, books)
	if err != nil {
		return nil, err
	}

	now := r.now()
	views := make([]*BookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b, authors[b.AuthorID], r.currency, now))
	}
	return views, nil
}

// GetBook returns apperr NotFound when the book does not exist.
func (r *Resolver) GetBook(ctx context.Context, id int64) (*BookView, error) {
	b, err := r.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.ResolveBook(ctx, b)
}

func (r *Resolver) ListBooks(ctx context.Context, filter bookModel.BookFilter) ([]*BookView, error) {
	books, err := r.books.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return r.ResolveBooks(ctx, books)
}

// BookInventory is the stock record of a book, absent when the inventory
// service cannot answer.
func (r *Resolver) BookInventory(ctx context.Context, bookID int64) (*inventoryModel.InventoryRecord, bool) {
	if r.stock == nil {
		return nil, false
	}
	return r.stock.GetInventory(ctx, bookID)
}

// LowStock is empty when the inventory service cannot answer.
func (r *Resolver) LowStock(ctx context.Context) []inventoryModel.InventoryRecord {
	if r.stock == nil {
		return []inventoryModel.InventoryRecord{}
	}
	return r.stock.ListLowStock(ctx)
}
