package stockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"bookgraph/internal/domains/inventory/gateway"
	"bookgraph/internal/domains/inventory/model"
)

// =====================================================
// STOCK API CLIENT
// =====================================================

// Client talks to the inventory HTTP service. Every failure is logged and
// folded into the degraded value of the operation.
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ gateway.StockGateway = (*Client)(nil)

func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stock api config: %w", err)
	}

	return &Client{
		config: config,
		// The per-call deadline comes from the request context; this is a backstop.
		httpClient: &http.Client{Timeout: 2 * config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RPS), config.RPS),
	}, nil
}

type lowStockResponse struct {
	Items []model.InventoryRecord `json:"items"`
}

type setStockBody struct {
	Quantity int `json:"quantity"`
}

func (c *Client) GetInventory(ctx context.Context, bookID int64) (*model.InventoryRecord, bool) {
	var rec model.InventoryRecord
	if err := c.do(ctx, http.MethodGet, c.config.inventoryURL(bookID), nil, &rec); err != nil {
		degraded("get_inventory", bookID, err)
		return nil, false
	}
	if rec.BookID == 0 {
		rec.BookID = bookID
	}
	return &rec, true
}

func (c *Client) ListLowStock(ctx context.Context) []model.InventoryRecord {
	var res lowStockResponse
	if err := c.do(ctx, http.MethodGet, c.config.lowStockURL(), nil, &res); err != nil {
		degraded("list_low_stock", 0, err)
		return []model.InventoryRecord{}
	}
	if res.Items == nil {
		return []model.InventoryRecord{}
	}
	return res.Items
}

func (c *Client) SetStock(ctx context.Context, bookID int64, quantity int) bool {
	body, err := json.Marshal(setStockBody{Quantity: quantity})
	if err != nil {
		degraded("set_stock", bookID, err)
		return false
	}
	if err := c.do(ctx, http.MethodPut, c.config.inventoryURL(bookID), body, nil); err != nil {
		degraded("set_stock", bookID, err)
		return false
	}
	return true
}

// do performs one rate-limited call under the configured timeout and decodes
// a 2xx JSON body into target when target is non-nil.
func (c *Client) do(ctx context.Context, method, url string, body []byte, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func degraded(op string, bookID int64, err error) {
	ev := log.Warn().Err(err).Str("op", op)
	if bookID != 0 {
		ev = ev.Int64("book_id", bookID)
	}
	ev.Msg("stock gateway degraded")
}
