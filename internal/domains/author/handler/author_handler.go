package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookgraph/internal/domains/author/model"
	"bookgraph/internal/domains/author/service"
	"bookgraph/internal/domains/resolver"
	"bookgraph/internal/shared/apperr"
	"bookgraph/internal/shared/response"
	"bookgraph/internal/shared/utils"
)

// Counter reports how many authors match a filter, ignoring its page.
type Counter interface {
	Count(ctx context.Context, filter model.AuthorFilter) (int64, error)
}

type AuthorHandler struct {
	service  service.ServiceInterface
	resolver *resolver.Resolver
	counter  Counter
}

func NewAuthorHandler(svc service.ServiceInterface, res *resolver.Resolver, counter Counter) *AuthorHandler {
	return &AuthorHandler{
		service:  svc,
		resolver: res,
		counter:  counter,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.FromError(c, apperr.Validation("id", "must be a positive integer"))
	}
	return id, ok
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.resolver.GetAuthor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors?search=&email=&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAll(c *gin.Context) {
	var filter model.AuthorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.FromError(c, apperr.Validation("query", err.Error()))
		return
	}
	filter.Limit, filter.Offset = utils.ClampPage(filter.Limit, filter.Offset)

	views, err := h.resolver.ListAuthors(c.Request.Context(), filter)
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

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/authors/:id/books
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetBooks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	books, err := h.resolver.AuthorBooks(c.Request.Context(), a)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	found, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !found {
		response.FromError(c, apperr.NotFound("author", id))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ════════════════════════════════════════════════════════════════
// BULK: POST /v1/authors/cleanup
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) DeleteAuthorsWithoutBooks(c *gin.Context) {
	result, err := h.service.DeleteAuthorsWithoutBooks(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
