package loader

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "bookgraph/internal/domains/author/model"
	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]int
}

func (r *recorder) fetch(_ context.Context, keys []int) (map[int]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]int(nil), keys...)
	sort.Ints(cp)
	r.calls = append(r.calls, cp)

	out := map[int]string{}
	for _, k := range keys {
		if k%2 == 0 {
			out[k] = "even"
		}
	}
	return out, nil
}

func TestLoader_LoadManyDedupesIntoOneFetch(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)

	got, err := l.LoadMany(context.Background(), []int{2, 4, 2, 3, 4, 2})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []int{2, 3, 4}, rec.calls[0])
	assert.Equal(t, map[int]string{2: "even", 4: "even"}, got)
}

func TestLoader_CachesHitsAndMisses(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	_, err := l.LoadMany(ctx, []int{1, 2})
	require.NoError(t, err)

	got, err := l.LoadMany(ctx, []int{1, 2, 6})
	require.NoError(t, err)
	require.Len(t, rec.calls, 2)
	assert.Equal(t, []int{6}, rec.calls[1])
	assert.Len(t, got, 2)

	_, err = l.LoadMany(ctx, []int{1, 2, 6})
	require.NoError(t, err)
	assert.Len(t, rec.calls, 2, "fully cached keys are not fetched again")
}

func TestLoader_LoadPrime(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	l.Prime(7, "primed")
	v, ok, err := l.Load(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "primed", v)
	assert.Empty(t, rec.calls)

	_, ok, err = l.Load(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, rec.calls, 1)
}

func TestLoader_SharedPassFetchesEachKeyOnce(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := l.LoadMany(ctx, []int{2, 3, 4, i % 4})
			if err != nil {
				errs <- err
				return
			}
			if got[2] != "even" || got[4] != "even" {
				errs <- errors.New("missing shared key")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := map[int]int{}
	for _, call := range rec.calls {
		for _, k := range call {
			seen[k]++
		}
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %d fetched more than once", k)
	}
	assert.Len(t, seen, 5)
}

func TestLoader_ConcurrentPassesAreIsolated(t *testing.T) {
	ctx := context.Background()
	const passes = 8

	recs := make([]*recorder, passes)
	var wg sync.WaitGroup
	for i := 0; i < passes; i++ {
		recs[i] = &recorder{}
		wg.Add(1)
		go func(rec *recorder) {
			defer wg.Done()
			l := New(rec.fetch)
			for j := 0; j < 3; j++ {
				_, _ = l.LoadMany(ctx, []int{1, 2, 3})
			}
		}(recs[i])
	}
	wg.Wait()

	for _, rec := range recs {
		require.Len(t, rec.calls, 1, "each pass fetches its own keys exactly once")
		assert.Equal(t, []int{1, 2, 3}, rec.calls[0])
	}
}

func TestLoader_FetchErrorIsNotCached(t *testing.T) {
	fail := true
	calls := 0
	l := New(func(_ context.Context, keys []int) (map[int]int, error) {
		calls++
		if fail {
			return nil, errors.New("store unavailable")
		}
		return map[int]int{keys[0]: 1}, nil
	})

	_, _, err := l.Load(context.Background(), 1)
	assert.Error(t, err)

	fail = false
	v, ok, err := l.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, calls)
}

func TestLoader_EmptyKeysDoNotFetch(t *testing.T) {
	rec := &recorder{}
	got, err := New(rec.fetch).LoadMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, rec.calls)
}

func TestNewLoaders_BooksByAuthorIDGroupsAndFillsEmpty(t *testing.T) {
	ctx := context.Background()
	authors := authorRepo.NewMemoryRepository()
	books := bookRepo.NewMemoryRepository()

	a, err := authors.Create(ctx, &authorModel.Author{Name: "Writer", Email: "a@x.com"})
	require.NoError(t, err)
	for _, title := range []string{"first", "second"} {
		_, err := books.Create(ctx, &bookModel.Book{Title: title, AuthorID: a.ID})
		require.NoError(t, err)
	}

	l := NewLoaders(authors, books)

	grouped, err := l.BooksByAuthorID.LoadMany(ctx, []int64{a.ID, 99})
	require.NoError(t, err)
	require.Len(t, grouped[a.ID], 2)
	assert.Equal(t, "first", grouped[a.ID][0].Title)
	require.Contains(t, grouped, int64(99))
	assert.Empty(t, grouped[99])

	found, err := l.AuthorByID.LoadMany(ctx, []int64{a.ID, 99})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	l := NewLoaders(authorRepo.NewMemoryRepository(), bookRepo.NewMemoryRepository())
	ctx := WithLoaders(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
