package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/domains/book/repository"
	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/domains/inventory/gateway"
	"bookgraph/internal/shared"
	"bookgraph/internal/shared/apperr"
	"bookgraph/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

type BookService struct {
	repo  repository.RepositoryInterface
	guard integrity.Guard
	stock gateway.StockGateway
	views ViewLister
	now   func() time.Time
}

type Option func(*BookService)

func WithClock(now func() time.Time) Option {
	return func(s *BookService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithViews enables the Excel export.
func WithViews(v ViewLister) Option {
	return func(s *BookService) { s.views = v }
}

func NewBookService(
	repo repository.RepositoryInterface,
	guard integrity.Guard,
	stock gateway.StockGateway,
	opts ...Option,
) *BookService {
	s := &BookService{
		repo:  repo,
		guard: guard,
		stock: stock,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ServiceInterface = (*BookService)(nil)

func (s *BookService) CreateBook(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.guard.AssertAuthorExists(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity(s.now()))
	if err != nil {
		return nil, err
	}

	// Stock is a side effect; the book exists whatever the gateway says.
	if req.InitialStock != nil && s.stock != nil {
		if ok := s.stock.SetStock(ctx, created.ID, *req.InitialStock); !ok {
			logger.Warn("initial stock not recorded", map[string]interface{}{
				"book_id":  created.ID,
				"quantity": *req.InitialStock,
			})
		}
	}

	return created, nil
}

func (s *BookService) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, apperr.NotFound("book", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, apperr.Validation("body", "at least one field must be provided")
	}

	current, err := s.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AuthorID != nil && *req.AuthorID != current.AuthorID {
		if err := s.guard.AssertAuthorExists(ctx, *req.AuthorID); err != nil {
			return nil, err
		}
	}

	req.ApplyToEntity(current)
	current.UpdatedAt = s.now()

	return s.repo.Update(ctx, current)
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *BookService) RepriceAll(ctx context.Context, percent decimal.Decimal) (*shared.BulkResult, error) {
	books, err := s.repo.Find(ctx, model.BookFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	result := &shared.BulkResult{Items: []shared.BulkItemResult{}}
	for _, b := range books {
		price := b.Price.Mul(factor).Round(2)
		_, err := s.UpdateBook(ctx, b.ID, &model.UpdateBookRequest{Price: &price})
		result.Record(b.ID, err)
	}

	logger.Info("RepriceAll completed", map[string]interface{}{
		"percent": percent.String(),
		"updated": result.SuccessCount,
		"failed":  result.FailedCount,
	})
	return result, nil
}

func (s *BookService) MarkAuthorBooksUnavailable(ctx context.Context, authorID int64) (*shared.BulkResult, error) {
	available := true
	books, err := s.repo.Find(ctx, model.BookFilter{AuthorIDs: []int64{authorID}, IsAvailable: &available})
	if err != nil {
		return nil, fmt.Errorf("failed to list books of author %d: %w", authorID, err)
	}

	unavailable := false
	result := &shared.BulkResult{Items: []shared.BulkItemResult{}}
	for _, b := range books {
		_, err := s.UpdateBook(ctx, b.ID, &model.UpdateBookRequest{IsAvailable: &unavailable})
		result.Record(b.ID, err)
	}

	logger.Info("MarkAuthorBooksUnavailable completed", map[string]interface{}{
		"author_id": authorID,
		"updated":   result.SuccessCount,
		"failed":    result.FailedCount,
	})
	return result, nil
}

func (s *BookService) SetStock(ctx context.Context, bookID int64, quantity int) (bool, error) {
	if err := (model.SetStockRequest{Quantity: quantity}).Validate(); err != nil {
		return false, err
	}

	exists, err := s.repo.ExistsByID(ctx, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return false, apperr.NotFound("book", bookID)
	}

	if s.stock == nil {
		return false, nil
	}
	return s.stock.SetStock(ctx, bookID, quantity), nil
}
