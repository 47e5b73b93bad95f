package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/shared"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newAuditor(t *testing.T) *integrity.Auditor {
	t.Helper()
	books := bookRepo.NewMemoryRepository()
	_, err := books.Create(context.Background(), &bookModel.Book{Title: "orphan", AuthorID: 5})
	require.NoError(t, err)
	return integrity.NewAuditor(authorRepo.NewMemoryRepository(), books, 10)
}

func TestAuditReferencesHandler_ProcessTask(t *testing.T) {
	c := new(mockCache)
	c.On("Set", mock.Anything, LastReportCacheKey, mock.MatchedBy(func(r *integrity.AuditReport) bool {
		return len(r.Dangling) == 1 && r.Dangling[0].AuthorID == 5
	}), lastReportTTL).Return(nil)

	h := NewAuditReferencesHandler(newAuditor(t), c)

	task, err := NewAuditReferencesTask(2)
	require.NoError(t, err)
	assert.Equal(t, shared.TypeAuditReferences, task.Type())

	var payload shared.AuditReferencesPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 2, payload.PageSize)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	c.AssertExpectations(t)
}

func TestAuditReferencesHandler_CacheFailureDoesNotFailTask(t *testing.T) {
	c := new(mockCache)
	c.On("Set", mock.Anything, LastReportCacheKey, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	h := NewAuditReferencesHandler(newAuditor(t), c)
	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeAuditReferences, nil))
	assert.NoError(t, err)
}

func TestAuditReferencesHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewAuditReferencesHandler(newAuditor(t), nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeAuditReferences, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
