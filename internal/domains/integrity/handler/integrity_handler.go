package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/domains/integrity/job"
	"bookgraph/internal/shared/apperr"
	"bookgraph/internal/shared/response"
	"bookgraph/pkg/cache"
)

// Enqueuer is the part of asynq.Client the handler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Handler struct {
	auditor  *integrity.Auditor
	cache    cache.Cache
	enqueuer Enqueuer
}

// NewHandler wires the audit endpoints. cache and enqueuer may be nil.
func NewHandler(auditor *integrity.Auditor, c cache.Cache, enqueuer Enqueuer) *Handler {
	return &Handler{auditor: auditor, cache: c, enqueuer: enqueuer}
}

func pageSize(c *gin.Context) (int, bool) {
	raw := c.Query("page_size")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		response.FromError(c, apperr.Validation("page_size", "must be a positive integer"))
		return 0, false
	}
	return n, true
}

// FindDangling - GET /v1/integrity/dangling?page_size=
// Runs the audit synchronously. Read-only.
func (h *Handler) FindDangling(c *gin.Context) {
	n, ok := pageSize(c)
	if !ok {
		return
	}

	report, err := h.auditor.WithPageSize(n).FindDanglingReferences(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// EnqueueAudit - POST /v1/integrity/audit?page_size=
func (h *Handler) EnqueueAudit(c *gin.Context) {
	if h.enqueuer == nil {
		response.ServiceUnavailable(c, "job queue is not configured")
		return
	}
	n, ok := pageSize(c)
	if !ok {
		return
	}

	task, err := job.NewAuditReferencesTask(n)
	if err != nil {
		response.FromError(c, err)
		return
	}
	info, err := h.enqueuer.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"task_id": info.ID, "queue": info.Queue})
}

// LastReport - GET /v1/integrity/last
// The report stored by the most recent worker run.
func (h *Handler) LastReport(c *gin.Context) {
	if h.cache == nil {
		response.ServiceUnavailable(c, "cache is not configured")
		return
	}

	var report integrity.AuditReport
	found, err := h.cache.Get(c.Request.Context(), job.LastReportCacheKey, &report)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !found {
		response.NotFound(c, "no audit report yet")
		return
	}
	response.Success(c, http.StatusOK, report)
}
