package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookgraph/internal/domains/inventory/gateway"
	"bookgraph/internal/domains/inventory/model"
)

// =====================================================
// IN-MEMORY STOCK GATEWAY
// =====================================================

// MockStockGateway keeps stock levels in memory. It backs local runs without
// an inventory service and the tests of its callers. SetFailing makes every
// call degrade the way the HTTP client does on transport failure.
type MockStockGateway struct {
	mu        sync.Mutex
	records   map[int64]model.InventoryRecord
	threshold int
	failing   bool
	now       func() time.Time
}

var _ gateway.StockGateway = (*MockStockGateway)(nil)

// NewMockStockGateway reports quantities at or below lowStockThreshold as low stock.
func NewMockStockGateway(lowStockThreshold int) *MockStockGateway {
	return &MockStockGateway{
		records:   make(map[int64]model.InventoryRecord),
		threshold: lowStockThreshold,
		now:       time.Now,
	}
}

func (m *MockStockGateway) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func (m *MockStockGateway) GetInventory(_ context.Context, bookID int64) (*model.InventoryRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return nil, false
	}
	rec, ok := m.records[bookID]
	if !ok {
		return nil, false
	}
	return &rec, true
}

func (m *MockStockGateway) ListLowStock(_ context.Context) []model.InventoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.InventoryRecord{}
	if m.failing {
		return out
	}
	for _, rec := range m.records {
		if rec.Quantity <= m.threshold {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}

func (m *MockStockGateway) SetStock(_ context.Context, bookID int64, quantity int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing || quantity < 0 {
		return false
	}
	m.records[bookID] = model.InventoryRecord{
		BookID:      bookID,
		Quantity:    quantity,
		LastUpdated: m.now(),
	}
	return true
}
