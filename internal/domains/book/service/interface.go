package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/shared"
)

// ServiceInterface is the Book command service.
type ServiceInterface interface {
	// CreateBook errors: Validation, ReferenceNotFound
	CreateBook(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)

	// GetBookByID errors: NotFound
	GetBookByID(ctx context.Context, id int64) (*model.Book, error)

	// UpdateBook applies only the supplied fields and refreshes UpdatedAt.
	// A changed author reference is checked like on create.
	// Errors: Validation, NotFound, ReferenceNotFound
	UpdateBook(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error)

	// DeleteBook reports whether the book existed.
	DeleteBook(ctx context.Context, id int64) (bool, error)

	// RepriceAll multiplies every price by (1 + percent/100), one update per book.
	RepriceAll(ctx context.Context, percent decimal.Decimal) (*shared.BulkResult, error)

	// MarkAuthorBooksUnavailable flips every available book of an author, one update per book.
	MarkAuthorBooksUnavailable(ctx context.Context, authorID int64) (*shared.BulkResult, error)

	// SetStock forwards to the stock gateway. The bool is the gateway outcome.
	// Errors: Validation, NotFound
	SetStock(ctx context.Context, bookID int64, quantity int) (bool, error)

	// ExportBooksToExcel writes the resolved views of the matching books.
	ExportBooksToExcel(ctx context.Context, filter model.BookFilter) (*excelize.File, int, error)
}
