package repository

import (
	"context"
	"sort"
	"sync"

	"bookgraph/internal/domains/author/model"
	"bookgraph/internal/shared/apperr"
)

// memoryRepository is an in-process Author store. Each method locks for the
// duration of one record operation only, matching the per-record atomicity
// of the Postgres store. Records are copied in and out.
type memoryRepository struct {
	mu      sync.RWMutex
	authors map[int64]model.Author
	nextID  int64
}

// NewMemoryRepository creates an empty Author store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		authors: make(map[int64]model.Author),
		nextID:  1,
	}
}

func (r *memoryRepository) Create(_ context.Context, a *model.Author) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(a.Email, 0) {
		return nil, apperr.DuplicateKey("email", a.Email)
	}

	stored := *a
	stored.ID = r.nextID
	r.nextID++
	r.authors[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.authors[id]
	if !ok {
		return nil, apperr.NotFound("author", id)
	}
	return &a, nil
}

func (r *memoryRepository) GetByIDs(_ context.Context, ids []int64) (map[int64]*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]*model.Author, len(ids))
	for _, id := range ids {
		if a, ok := r.authors[id]; ok {
			out := a
			result[id] = &out
		}
	}
	return result, nil
}

func (r *memoryRepository) Find(_ context.Context, filter model.AuthorFilter) ([]*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matchLocked(filter)
	return paginate(matched, filter.Offset, filter.Limit), nil
}

func (r *memoryRepository) Update(_ context.Context, a *model.Author) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authors[a.ID]; !ok {
		return nil, apperr.NotFound("author", a.ID)
	}
	if r.emailTakenLocked(a.Email, a.ID) {
		return nil, apperr.DuplicateKey("email", a.Email)
	}

	stored := *a
	r.authors[a.ID] = stored
	out := stored
	return &out, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authors[id]; !ok {
		return false, nil
	}
	delete(r.authors, id)
	return true, nil
}

func (r *memoryRepository) Count(_ context.Context, filter model.AuthorFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matchLocked(filter))), nil
}

func (r *memoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.authors[id]
	return ok, nil
}

// matchLocked returns copies of the matching authors in id order.
func (r *memoryRepository) matchLocked(filter model.AuthorFilter) []*model.Author {
	out := make([]*model.Author, 0)
	for _, a := range r.authors {
		a := a
		if filter.Matches(&a) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryRepository) emailTakenLocked(email string, excludeID int64) bool {
	for id, a := range r.authors {
		if id != excludeID && a.HasEmail(email) {
			return true
		}
	}
	return false
}

func paginate(items []*model.Author, offset, limit int) []*model.Author {
	if offset > 0 {
		if offset >= len(items) {
			return []*model.Author{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
