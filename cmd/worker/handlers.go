package main

import (
	"github.com/hibiken/asynq"

	integrityJob "bookgraph/internal/domains/integrity/job"
	"bookgraph/internal/shared"
	"bookgraph/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	auditReferences *integrityJob.AuditReferencesHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		auditReferences: integrityJob.NewAuditReferencesHandler(c.Auditor, c.Cache),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeAuditReferences, h.auditReferences.ProcessTask)
}
