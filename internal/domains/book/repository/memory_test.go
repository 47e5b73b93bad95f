package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/shared/apperr"
)

func TestMemoryRepository_FindByAuthorsAndAvailability(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, b := range []model.Book{
		{Title: "one", AuthorID: 1, IsAvailable: true, Price: decimal.NewFromInt(1)},
		{Title: "two", AuthorID: 2, IsAvailable: false, Price: decimal.NewFromInt(2)},
		{Title: "three", AuthorID: 1, IsAvailable: false, Price: decimal.NewFromInt(3)},
		{Title: "four", AuthorID: 3, IsAvailable: true, Price: decimal.NewFromInt(4)},
	} {
		b := b
		_, err := repo.Create(ctx, &b)
		require.NoError(t, err)
	}

	t.Run("author set", func(t *testing.T) {
		books, err := repo.Find(ctx, model.BookFilter{AuthorIDs: []int64{1, 3}})
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, []string{"one", "three", "four"}, []string{books[0].Title, books[1].Title, books[2].Title})
	})

	t.Run("availability", func(t *testing.T) {
		available := true
		n, err := repo.Count(ctx, model.BookFilter{AuthorIDs: []int64{1}, IsAvailable: &available})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("paging", func(t *testing.T) {
		books, err := repo.Find(ctx, model.BookFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, int64(3), books[0].ID)

		books, err = repo.Find(ctx, model.BookFilter{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestMemoryRepository_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, &model.Book{Title: "T", AuthorID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	exists, err := repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	created.Title = "T2"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)

	_, err = repo.GetByID(ctx, 77)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	found, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = repo.Update(ctx, created)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
