// Package resolver stitches the Book and Author stores into one read-only
// relational view. Single lookups go straight to the accessors; list
// resolution always goes through the request-scoped loaders so that a pass
// costs one fetch per store, whatever the number of entities.
package resolver

import (
	"context"
	"time"

	authorRepo "bookgraph/internal/domains/author/repository"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/domains/inventory/gateway"
	"bookgraph/internal/domains/resolver/loader"
)

const DefaultCurrency = "$"

type Resolver struct {
	authors  authorRepo.RepositoryInterface
	books    bookRepo.RepositoryInterface
	stock    gateway.StockGateway
	now      func() time.Time
	currency string
}

type Option func(*Resolver)

// WithClock sets the clock used for age fields.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCurrency sets the prefix of formatted prices.
func WithCurrency(prefix string) Option {
	return func(r *Resolver) {
		if prefix != "" {
			r.currency = prefix
		}
	}
}

func New(
	authors authorRepo.RepositoryInterface,
	books bookRepo.RepositoryInterface,
	stock gateway.StockGateway,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		authors:  authors,
		books:    books,
		stock:    stock,
		now:      time.Now,
		currency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLoaders creates the loaders for one resolution pass.
func (r *Resolver) NewLoaders() *loader.Loaders {
	return loader.NewLoaders(r.authors, r.books)
}

// loaders returns the pass loaders carried by ctx. Calls outside a request
// scope get loaders private to that call.
func (r *Resolver) loaders(ctx context.Context) *loader.Loaders {
	if l := loader.FromContext(ctx); l != nil {
		return l
	}
	return r.NewLoaders()
}
