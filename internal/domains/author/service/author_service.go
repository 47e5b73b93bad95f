package service

import (
	"context"
	"fmt"
	"time"

	"bookgraph/internal/domains/author/model"
	"bookgraph/internal/domains/author/repository"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/domains/resolver/loader"
	"bookgraph/internal/shared"
	"bookgraph/internal/shared/apperr"
	"bookgraph/pkg/logger"
)

// authorService implements ServiceInterface
type authorService struct {
	repo  repository.RepositoryInterface
	books bookRepo.RepositoryInterface // read-only, candidate derivation
	guard integrity.Guard
	now   func() time.Time
}

type Option func(*authorService)

// WithClock sets the clock used for timestamps and date-of-birth validation.
func WithClock(now func() time.Time) Option {
	return func(s *authorService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAuthorService creates a new author service instance
func NewAuthorService(
	repo repository.RepositoryInterface,
	books bookRepo.RepositoryInterface,
	guard integrity.Guard,
	opts ...Option,
) ServiceInterface {
	s := &authorService{
		repo:  repo,
		books: books,
		guard: guard,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	if err := s.guard.AssertEmailAvailable(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity(now))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, apperr.NotFound("author", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, apperr.Validation("body", "at least one field must be provided")
	}

	current, err := s.loadCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-checked on every supplied email; the guard ignores the author's own record.
	if req.Email != nil {
		if err := s.guard.AssertEmailAvailable(ctx, *req.Email, id); err != nil {
			return nil, err
		}
	}

	req.ApplyToEntity(current)
	current.UpdatedAt = now

	return s.repo.Update(ctx, current)
}

// loadCurrent reads the record a write starts from. It goes through the batch
// accessor, which is never served from the cache, so omitted fields keep
// their stored values.
func (s *authorService) loadCurrent(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, apperr.NotFound("author", id)
	}
	found, err := s.repo.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load author %d: %w", id, err)
	}
	current, ok := found[id]
	if !ok {
		return nil, apperr.NotFound("author", id)
	}
	return current, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	if !exists {
		return false, nil
	}

	if err := s.guard.AssertNoDependentBooks(ctx, id); err != nil {
		return false, err
	}

	return s.repo.Delete(ctx, id)
}

func (s *authorService) DeleteAuthorsWithoutBooks(ctx context.Context) (*shared.BulkResult, error) {
	authors, err := s.repo.Find(ctx, model.AuthorFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}

	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	booksByAuthor, err := loader.NewLoaders(s.repo, s.books).BooksByAuthorID.LoadMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load books of authors: %w", err)
	}

	result := &shared.BulkResult{Items: []shared.BulkItemResult{}}
	for _, a := range authors {
		if len(booksByAuthor[a.ID]) > 0 {
			continue
		}
		// Delete passes the guard again; a book may have been created since the read.
		found, err := s.Delete(ctx, a.ID)
		if err == nil && !found {
			err = apperr.NotFound("author", a.ID)
		}
		result.Record(a.ID, err)
	}

	logger.Info("DeleteAuthorsWithoutBooks completed", map[string]interface{}{
		"candidates": len(result.Items),
		"deleted":    result.SuccessCount,
		"failed":     result.FailedCount,
	})
	return result, nil
}
