package model

import "time"

// InventoryRecord is the stock level the inventory service reports for one book.
type InventoryRecord struct {
	BookID      int64     `json:"book_id"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}
