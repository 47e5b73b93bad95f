package gateway

import (
	"context"

	"bookgraph/internal/domains/inventory/model"
)

// StockGateway is the inventory service boundary.
//
// No method returns an error. Timeouts, transport failures and non-success
// statuses collapse to "absent", an empty slice or false, and callers treat
// them as a degraded but valid result.
type StockGateway interface {
	// GetInventory returns (nil, false) when no record is available.
	GetInventory(ctx context.Context, bookID int64) (*model.InventoryRecord, bool)

	// ListLowStock returns an empty slice on any failure.
	ListLowStock(ctx context.Context) []model.InventoryRecord

	// SetStock returns false on any failure.
	SetStock(ctx context.Context, bookID int64, quantity int) bool
}
