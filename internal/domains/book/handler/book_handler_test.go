package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "bookgraph/internal/domains/author/model"
	authorRepo "bookgraph/internal/domains/author/repository"
	"bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
	service "bookgraph/internal/domains/book/service"
	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/domains/inventory/gateway/mock"
	"bookgraph/internal/domains/resolver"
	"bookgraph/internal/shared/response"
)

type fixture struct {
	router  *gin.Engine
	authors authorRepo.RepositoryInterface
	books   bookRepo.RepositoryInterface
	stock   *mock.MockStockGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authors := authorRepo.NewMemoryRepository()
	books := bookRepo.NewMemoryRepository()
	stock := mock.NewMockStockGateway(3)
	res := resolver.New(authors, books, stock)
	svc := service.NewBookService(books, integrity.NewGuard(authors, books), stock, service.WithViews(res))
	h := NewHandler(svc, res, books)

	r := gin.New()
	r.GET("/books", h.ListBooks)
	r.GET("/books/:id", h.GetBook)
	r.GET("/books/:id/author", h.GetBookAuthor)
	r.GET("/books/:id/inventory", h.GetBookInventory)
	r.POST("/books", h.CreateBook)
	r.PATCH("/books/:id", h.UpdateBook)
	r.DELETE("/books/:id", h.DeleteBook)
	r.PUT("/books/:id/stock", h.SetStock)
	r.POST("/books/reprice", h.RepriceAll)
	r.POST("/authors/:id/books/unavailable", h.MarkAuthorBooksUnavailable)
	r.GET("/inventory/low-stock", h.ListLowStock)

	return &fixture{router: r, authors: authors, books: books, stock: stock}
}

func (f *fixture) seedAuthor(t *testing.T, name, email string) int64 {
	t.Helper()
	a, err := f.authors.Create(context.Background(), &authorModel.Author{Name: name, Email: email})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) seedBook(t *testing.T, title, price string, authorID int64) int64 {
	t.Helper()
	b, err := f.books.Create(context.Background(), &model.Book{
		Title:         title,
		Price:         decimal.RequireFromString(price),
		AuthorID:      authorID,
		PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		IsAvailable:   true,
	})
	require.NoError(t, err)
	return b.ID
}

func (f *fixture) call(t *testing.T, method, path string, body interface{}) (int, response.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	return w.Code, resp, data
}

func TestListBooksFiltersAndMeta(t *testing.T) {
	f := newFixture(t)
	a1 := f.seedAuthor(t, "Ann", "ann@x.com")
	a2 := f.seedAuthor(t, "Bob", "bob@x.com")
	f.seedBook(t, "One", "10", a1)
	f.seedBook(t, "Two", "20", a1)
	f.seedBook(t, "Three", "30", a2)

	status, resp, data := f.call(t, http.MethodGet, "/books?author_id=1&limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Limit)

	var views []resolver.BookView
	require.NoError(t, json.Unmarshal(data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "One", views[0].Title)
	assert.Equal(t, "$10.00", views[0].FormattedPrice)
}

func TestGetBookAuthorDangling(t *testing.T) {
	f := newFixture(t)
	f.seedBook(t, "Orphan", "5", 42)

	status, _, data := f.call(t, http.MethodGet, "/books/1/author", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"author":null,"has_valid_author":false}`, string(data))

	status, _, _ = f.call(t, http.MethodGet, "/books/99/author", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateAndUpdateBook(t *testing.T) {
	f := newFixture(t)
	f.seedAuthor(t, "Ann", "ann@x.com")

	status, resp, _ := f.call(t, http.MethodPost, "/books", gin.H{"title": "", "price": "1", "author_id": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	status, _, _ = f.call(t, http.MethodPost, "/books", gin.H{"title": "T", "price": "1", "author_id": 1})
	require.Equal(t, http.StatusCreated, status)

	status, _, data := f.call(t, http.MethodPatch, "/books/1", gin.H{"title": "Renamed"})
	require.Equal(t, http.StatusOK, status)
	var b model.Book
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Equal(t, "Renamed", b.Title)
	assert.True(t, b.Price.Equal(decimal.NewFromInt(1)))

	status, resp, _ = f.call(t, http.MethodPatch, "/books/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	status, resp, _ = f.call(t, http.MethodPatch, "/books/1", gin.H{"author_id": 77})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "REFERENCE_NOT_FOUND", resp.Error.Code)
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	f.seedBook(t, "T", "1", 1)

	status, _, _ := f.call(t, http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = f.call(t, http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = f.call(t, http.MethodDelete, "/books/zero", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStockRoutes(t *testing.T) {
	f := newFixture(t)
	f.seedBook(t, "T", "1", 1)

	status, _, data := f.call(t, http.MethodPut, "/books/1/stock", gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"recorded":true}`, string(data))

	status, _, _ = f.call(t, http.MethodPut, "/books/1/stock", gin.H{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = f.call(t, http.MethodPut, "/books/9/stock", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, _, data = f.call(t, http.MethodGet, "/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"book_id":1`)

	f.stock.SetFailing(true)
	status, _, data = f.call(t, http.MethodGet, "/books/1/inventory", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"inventory":null,"available":false}`, string(data))
}

func TestBulkRoutes(t *testing.T) {
	f := newFixture(t)
	a := f.seedAuthor(t, "Ann", "ann@x.com")
	f.seedBook(t, "One", "10.00", a)
	f.seedBook(t, "Two", "20.00", a)

	status, _, data := f.call(t, http.MethodPost, "/books/reprice", gin.H{"percent": "10"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"success_count":2`)

	b, err := f.books.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, b.Price.Equal(decimal.NewFromInt(22)), b.Price.String())

	status, _, data = f.call(t, http.MethodPost, "/authors/1/books/unavailable", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"success_count":2`)
}
