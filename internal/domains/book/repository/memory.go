package repository

import (
	"context"
	"sort"
	"sync"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/shared/apperr"
)

type memoryRepository struct {
	mu     sync.RWMutex
	books  map[int64]model.Book
	nextID int64
}

// NewMemoryRepository creates an empty in-process Book store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		books:  make(map[int64]model.Book),
		nextID: 1,
	}
}

func (r *memoryRepository) Create(_ context.Context, b *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *b
	stored.ID = r.nextID
	r.nextID++
	r.books[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("book", id)
	}
	return &b, nil
}

func (r *memoryRepository) Find(_ context.Context, filter model.BookFilter) ([]*model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matchLocked(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*model.Book{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *memoryRepository) Update(_ context.Context, b *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return nil, apperr.NotFound("book", b.ID)
	}
	stored := *b
	r.books[b.ID] = stored
	out := stored
	return &out, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	return true, nil
}

func (r *memoryRepository) Count(_ context.Context, filter model.BookFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matchLocked(filter))), nil
}

func (r *memoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.books[id]
	return ok, nil
}

func (r *memoryRepository) matchLocked(filter model.BookFilter) []*model.Book {
	out := make([]*model.Book, 0)
	for _, b := range r.books {
		b := b
		if filter.Matches(&b) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
