package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/domains/integrity/job"
	"bookgraph/internal/shared"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t-1", Queue: shared.QueueIntegrity}, nil
}

type jsonCache struct {
	data map[string][]byte
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *jsonCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newRouter(t *testing.T, h *Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/integrity/dangling", h.FindDangling)
	r.GET("/integrity/last", h.LastReport)
	r.POST("/integrity/audit", h.EnqueueAudit)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestFindDanglingReportsOrphans(t *testing.T) {
	authors := authorRepo.NewMemoryRepository()
	books := bookRepo.NewMemoryRepository()
	_, err := books.Create(context.Background(), &bookModel.Book{Title: "Orphan", Price: decimal.NewFromInt(1), AuthorID: 5})
	require.NoError(t, err)

	r := newRouter(t, NewHandler(integrity.NewAuditor(authors, books, 10), nil, nil))

	w := serve(r, http.MethodGet, "/integrity/dangling?page_size=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"author_id":5`)
	assert.Contains(t, w.Body.String(), `"books_scanned":1`)

	w = serve(r, http.MethodGet, "/integrity/dangling?page_size=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnqueueAudit(t *testing.T) {
	auditor := integrity.NewAuditor(authorRepo.NewMemoryRepository(), bookRepo.NewMemoryRepository(), 10)

	w := serve(newRouter(t, NewHandler(auditor, nil, nil)), http.MethodPost, "/integrity/audit")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	enq := &fakeEnqueuer{}
	w = serve(newRouter(t, NewHandler(auditor, nil, enq)), http.MethodPost, "/integrity/audit?page_size=50")
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, shared.TypeAuditReferences, enq.tasks[0].Type())
	assert.JSONEq(t, `{"page_size":50}`, string(enq.tasks[0].Payload()))

	enq.err = errors.New("redis down")
	w = serve(newRouter(t, NewHandler(auditor, nil, enq)), http.MethodPost, "/integrity/audit")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLastReport(t *testing.T) {
	auditor := integrity.NewAuditor(authorRepo.NewMemoryRepository(), bookRepo.NewMemoryRepository(), 10)
	c := &jsonCache{data: map[string][]byte{}}
	r := newRouter(t, NewHandler(auditor, c, nil))

	w := serve(r, http.MethodGet, "/integrity/last")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, c.Set(context.Background(), job.LastReportCacheKey, integrity.AuditReport{BooksScanned: 7, Pages: 1}, time.Hour))
	w = serve(r, http.MethodGet, "/integrity/last")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"books_scanned":7`)
}
