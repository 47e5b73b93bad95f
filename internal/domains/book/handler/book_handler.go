package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookgraph/internal/domains/book/model"
	service "bookgraph/internal/domains/book/service"
	"bookgraph/internal/domains/resolver"
	"bookgraph/internal/shared/apperr"
	"bookgraph/internal/shared/response"
	"bookgraph/internal/shared/utils"
)

// Counter reports how many books match a filter, ignoring its page.
type Counter interface {
	Count(ctx context.Context, filter model.BookFilter) (int64, error)
}

// Handler - HTTP handler for /books and /inventory
type Handler struct {
	service  service.ServiceInterface
	resolver *resolver.Resolver
	counter  Counter
}

// NewHandler - Constructor with DI
func NewHandler(svc service.ServiceInterface, res *resolver.Resolver, counter Counter) *Handler {
	return &Handler{
		service:  svc,
		resolver: res,
		counter:  counter,
	}
}

func (h *Handler) bindFilter(c *gin.Context) (model.BookFilter, bool) {
	var filter model.BookFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.FromError(c, apperr.Validation("query", err.Error()))
		return filter, false
	}
	filter.Limit, filter.Offset = utils.ClampPage(filter.Limit, filter.Offset)
	return filter, true
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.FromError(c, apperr.Validation("id", "must be a positive integer"))
	}
	return id, ok
}

// ListBooks - GET /v1/books?author_id=&is_available=&limit=&offset=
func (h *Handler) ListBooks(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	views, err := h.resolver.ListBooks(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	total, err := h.counter.Count(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, views, &response.Meta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Total:  total,
	})
}

// GetBook - GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	view, err := h.resolver.GetBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetBookAuthor - GET /v1/books/:id/author
// A dangling reference answers 200 with a null author.
func (h *Handler) GetBookAuthor(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBookByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.resolver.BookAuthor(c.Request.Context(), b)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"author":           a,
		"has_valid_author": a != nil,
	})
}

// GetBookInventory - GET /v1/books/:id/inventory
// An unreachable inventory service answers 200 with a null record.
func (h *Handler) GetBookInventory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	rec, found := h.resolver.BookInventory(c.Request.Context(), id)
	response.Success(c, http.StatusOK, gin.H{
		"inventory": rec,
		"available": found,
	})
}

// ListLowStock - GET /v1/inventory/low-stock
func (h *Handler) ListLowStock(c *gin.Context) {
	response.Success(c, http.StatusOK, h.resolver.LowStock(c.Request.Context()))
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.CreateBook(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// UpdateBook - PATCH /v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.UpdateBook(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// DeleteBook - DELETE /v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	found, err := h.service.DeleteBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !found {
		response.FromError(c, apperr.NotFound("book", id))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// SetStock - PUT /v1/books/:id/stock
func (h *Handler) SetStock(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	recorded, err := h.service.SetStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recorded": recorded})
}

// RepriceAll - POST /v1/books/reprice
func (h *Handler) RepriceAll(c *gin.Context) {
	var req model.RepriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RepriceAll(c.Request.Context(), req.Percent)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// MarkAuthorBooksUnavailable - POST /v1/authors/:id/books/unavailable
func (h *Handler) MarkAuthorBooksUnavailable(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.service.MarkAuthorBooksUnavailable(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ExportBooks - GET /v1/books/export
func (h *Handler) ExportBooks(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	// The export is not paged.
	filter.Limit, filter.Offset = 0, 0

	f, rows, err := h.service.ExportBooksToExcel(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrExportDisabled) {
			response.ServiceUnavailable(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="books.xlsx"`)
	c.Header("X-Row-Count", fmt.Sprint(rows))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Msg("failed to stream excel export")
	}
}
