package stockapi

import (
	"fmt"
	"strings"
	"time"
)

// =====================================================
// STOCK API CONFIGURATION
// =====================================================

type Config struct {
	BaseURL   string        // e.g. http://inventory:8081
	APIKey    string        // sent as X-API-Key when set
	Timeout   time.Duration // per call, default 3s
	RPS       int           // client-side rate limit, default 20
	UserAgent string
}

// NewConfig creates a config with defaults applied.
func NewConfig(baseURL, apiKey string, timeout time.Duration, rps int) *Config {
	c := &Config{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		Timeout:   timeout,
		RPS:       rps,
		UserAgent: "bookgraph/1.0",
	}
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 20
	}
	return c
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("stock api base url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("stock api base url must be http(s): %q", c.BaseURL)
	}
	return nil
}

func (c *Config) inventoryURL(bookID int64) string {
	return fmt.Sprintf("%s/inventory/%d", c.BaseURL, bookID)
}

func (c *Config) lowStockURL() string {
	return c.BaseURL + "/inventory/low-stock"
}
