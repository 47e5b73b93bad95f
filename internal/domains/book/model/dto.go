package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"bookgraph/internal/shared"
	"bookgraph/internal/shared/apperr"
)

// CreateBookRequest - POST /v1/books
type CreateBookRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	AuthorID      int64           `json:"author_id"`
	PublishedDate *shared.Date    `json:"published_date,omitempty"`
	IsAvailable   *bool           `json:"is_available,omitempty"` // defaults to true
	InitialStock  *int            `json:"initial_stock,omitempty"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateBookRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("must not be empty"),
			validation.RuneLength(1, MaxTitleLength).Error("must be at most 500 characters"),
		),
		validation.Field(&r.Description,
			validation.RuneLength(0, MaxDescriptionLength).Error("must be at most 2000 characters"),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.AuthorID, validation.Required.Error("is required")),
		validation.Field(&r.InitialStock, validation.Min(0).Error("must be no less than 0")),
	))
}

// ToEntity maps the request to a Book stamped at now, applying create defaults.
func (r *CreateBookRequest) ToEntity(now time.Time) *Book {
	published := now
	if r.PublishedDate != nil {
		published = r.PublishedDate.Time
	}
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &Book{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price.Round(2),
		AuthorID:      r.AuthorID,
		PublishedDate: published,
		IsAvailable:   available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UpdateBookRequest - PATCH /v1/books/:id
// Only non-nil fields are applied.
type UpdateBookRequest struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	AuthorID      *int64           `json:"author_id,omitempty"`
	PublishedDate *shared.Date     `json:"published_date,omitempty"`
	IsAvailable   *bool            `json:"is_available,omitempty"`
}

func (r *UpdateBookRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

func (r UpdateBookRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("must not be empty"),
			validation.RuneLength(1, MaxTitleLength).Error("must be at most 500 characters"),
		),
		validation.Field(&r.Description,
			validation.RuneLength(0, MaxDescriptionLength).Error("must be at most 2000 characters"),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.AuthorID, validation.NilOrNotEmpty.Error("must not be zero")),
	))
}

func (r *UpdateBookRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil &&
		r.AuthorID == nil && r.PublishedDate == nil && r.IsAvailable == nil
}

// ApplyToEntity applies the supplied fields to book.
func (r *UpdateBookRequest) ApplyToEntity(book *Book) {
	if r.Title != nil {
		book.Title = *r.Title
	}
	if r.Description != nil {
		book.Description = *r.Description
	}
	if r.Price != nil {
		book.Price = r.Price.Round(2)
	}
	if r.AuthorID != nil {
		book.AuthorID = *r.AuthorID
	}
	if r.PublishedDate != nil {
		book.PublishedDate = r.PublishedDate.Time
	}
	if r.IsAvailable != nil {
		book.IsAvailable = *r.IsAvailable
	}
}

// RepriceRequest - POST /v1/books/reprice
type RepriceRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// SetStockRequest - PUT /v1/books/:id/stock
type SetStockRequest struct {
	Quantity int `json:"quantity"`
}

func (r SetStockRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Min(0).Error("must be no less than 0")),
	))
}

func nonNegativePrice(value interface{}) error {
	var price decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		price = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		price = *v
	default:
		return nil
	}
	if price.IsNegative() {
		return validation.NewError("validation_price_negative", "must be no less than 0")
	}
	return nil
}
