package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookgraph/internal/domains/integrity"
	"bookgraph/internal/shared"
	"bookgraph/pkg/cache"
)

const (
	// LastReportCacheKey holds the JSON report of the most recent run.
	LastReportCacheKey = "integrity:audit:last"
	lastReportTTL      = 24 * time.Hour
)

// AuditReferencesHandler runs the dangling-reference audit.
// It reports, it never repairs.
type AuditReferencesHandler struct {
	auditor *integrity.Auditor
	cache   cache.Cache
}

func NewAuditReferencesHandler(auditor *integrity.Auditor, c cache.Cache) *AuditReferencesHandler {
	return &AuditReferencesHandler{auditor: auditor, cache: c}
}

// NewAuditReferencesTask builds the task enqueued by the scheduler.
func NewAuditReferencesTask(pageSize int) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.AuditReferencesPayload{PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return asynq.NewTask(shared.TypeAuditReferences, payload, asynq.Queue(shared.QueueIntegrity), asynq.MaxRetry(1)), nil
}

// ProcessTask
// 1. Parse payload (an empty payload uses the configured page size).
// 2. Page through books and batch-check their authors.
// 3. Log every dangling reference and keep the report in cache.
func (h *AuditReferencesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.AuditReferencesPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Broken payload will not fix itself on retry
			return fmt.Errorf("unmarshal audit payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	started := time.Now()
	report, err := h.auditor.WithPageSize(payload.PageSize).FindDanglingReferences(ctx)
	if err != nil {
		log.Error().Err(err).Msg("integrity audit failed")
		return err
	}

	for _, d := range report.Dangling {
		log.Warn().
			Int64("book_id", d.BookID).
			Int64("author_id", d.AuthorID).
			Str("title", d.Title).
			Msg("dangling author reference")
	}

	log.Info().
		Int64("books_scanned", report.BooksScanned).
		Int("pages", report.Pages).
		Int("dangling", len(report.Dangling)).
		Dur("took", time.Since(started)).
		Msg("integrity audit completed")

	if h.cache != nil {
		if err := h.cache.Set(ctx, LastReportCacheKey, report, lastReportTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache audit report")
		}
	}
	return nil
}
