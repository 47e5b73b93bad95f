package resolver

import (
	"time"

	"github.com/shopspring/decimal"

	authorModel "bookgraph/internal/domains/author/model"
	bookModel "bookgraph/internal/domains/book/model"
)

// BookView is a book with its author and derived fields.
type BookView struct {
	*bookModel.Book
	Author         *authorModel.Author `json:"author"`
	AuthorName     *string             `json:"author_name"`
	HasValidAuthor bool                `json:"has_valid_author"`
	FormattedPrice string              `json:"formatted_price"`
	AgeYears       int                 `json:"age_years"`
}

// AuthorView is an author with its books and derived aggregates.
type AuthorView struct {
	*authorModel.Author
	Books                    []*bookModel.Book `json:"books"`
	AgeYears                 *int              `json:"age_years"`
	BookCount                int               `json:"book_count"`
	AvailableBooks           []*bookModel.Book `json:"available_books"`
	TotalBookValue           decimal.Decimal   `json:"total_book_value"`
	MostExpensiveBook        *bookModel.Book   `json:"most_expensive_book"`
	YearsSinceFirstPublished *int              `json:"years_since_first_published"`
}

// FormatPrice renders price with two decimals behind the currency prefix.
func FormatPrice(currency string, price decimal.Decimal) string {
	return currency + price.StringFixed(2)
}

func newBookView(b *bookModel.Book, a *authorModel.Author, currency string, now time.Time) *BookView {
	v := &BookView{
		Book:           b,
		Author:         a,
		HasValidAuthor: a != nil,
		FormattedPrice: FormatPrice(currency, b.Price),
		AgeYears:       b.AgeAt(now),
	}
	if a != nil {
		name := a.Name
		v.AuthorName = &name
	}
	return v
}

// newAuthorView computes every aggregate in one pass over books, which must
// be in store order.
func newAuthorView(a *authorModel.Author, books []*bookModel.Book, now time.Time) *AuthorView {
	if books == nil {
		books = []*bookModel.Book{}
	}
	v := &AuthorView{
		Author:         a,
		Books:          books,
		AgeYears:       a.AgeAt(now),
		BookCount:      len(books),
		AvailableBooks: []*bookModel.Book{},
		TotalBookValue: decimal.Zero,
	}

	var earliest *bookModel.Book
	for _, b := range books {
		if b.IsAvailable {
			v.AvailableBooks = append(v.AvailableBooks, b)
		}
		v.TotalBookValue = v.TotalBookValue.Add(b.Price)

		// Strictly greater keeps the first book on ties.
		if v.MostExpensiveBook == nil || b.Price.GreaterThan(v.MostExpensiveBook.Price) {
			v.MostExpensiveBook = b
		}
		if earliest == nil || b.PublishedDate.Before(earliest.PublishedDate) {
			earliest = b
		}
	}

	if earliest != nil {
		years := now.Year() - earliest.PublishedDate.Year()
		v.YearsSinceFirstPublished = &years
	}
	return v
}
