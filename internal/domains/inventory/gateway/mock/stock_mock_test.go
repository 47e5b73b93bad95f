package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStockGateway(t *testing.T) {
	ctx := context.Background()
	g := NewMockStockGateway(2)

	require.True(t, g.SetStock(ctx, 1, 10))
	require.True(t, g.SetStock(ctx, 2, 1))
	assert.False(t, g.SetStock(ctx, 3, -1))

	rec, ok := g.GetInventory(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, 10, rec.Quantity)

	low := g.ListLowStock(ctx)
	require.Len(t, low, 1)
	assert.Equal(t, int64(2), low[0].BookID)

	g.SetFailing(true)
	_, ok = g.GetInventory(ctx, 1)
	assert.False(t, ok)
	assert.Empty(t, g.ListLowStock(ctx))
	assert.False(t, g.SetStock(ctx, 1, 5))
}
