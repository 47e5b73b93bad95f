package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 2000
)

// Book is owned exclusively by the Book store. AuthorID is a reference held by
// value into the Author store; nothing at the storage layer keeps it valid.
type Book struct {
	ID            int64           `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	AuthorID      int64           `json:"author_id" db:"author_id"`
	PublishedDate time.Time       `json:"published_date" db:"published_date"`
	IsAvailable   bool            `json:"is_available" db:"is_available"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// AgeAt is the calendar-year distance between publication and now.
func (b *Book) AgeAt(now time.Time) int {
	return now.Year() - b.PublishedDate.Year()
}

// BookFilter is the get-by-predicate query of the Book store.
// Zero-valued fields do not constrain the result.
type BookFilter struct {
	IDs         []int64 `json:"ids" form:"ids"`
	AuthorIDs   []int64 `json:"author_ids" form:"author_id"`
	IsAvailable *bool   `json:"is_available" form:"is_available"`
	Limit       int     `json:"limit" form:"limit"`
	Offset      int     `json:"offset" form:"offset"`
}

// Matches evaluates the predicate against a single book. Limit and Offset are ignored.
func (f BookFilter) Matches(b *Book) bool {
	if len(f.IDs) > 0 && !containsID(f.IDs, b.ID) {
		return false
	}
	if len(f.AuthorIDs) > 0 && !containsID(f.AuthorIDs, b.AuthorID) {
		return false
	}
	if f.IsAvailable != nil && b.IsAvailable != *f.IsAvailable {
		return false
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
