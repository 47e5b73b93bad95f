package integrity

import (
	"context"
	"fmt"

	authorRepo "bookgraph/internal/domains/author/repository"
	bookModel "bookgraph/internal/domains/book/model"
	bookRepo "bookgraph/internal/domains/book/repository"
	"bookgraph/internal/shared/utils"
)

const DefaultAuditPageSize = 500

// DanglingReference is a book whose author no longer exists.
type DanglingReference struct {
	BookID   int64  `json:"book_id"`
	Title    string `json:"title"`
	AuthorID int64  `json:"author_id"`
}

// AuditReport summarises one audit run.
type AuditReport struct {
	BooksScanned int64               `json:"books_scanned"`
	Pages        int                 `json:"pages"`
	Dangling     []DanglingReference `json:"dangling"`
}

// Auditor detects references broken by the accepted check-then-write race.
// It never mutates either store.
type Auditor struct {
	authors  authorRepo.RepositoryInterface
	books    bookRepo.RepositoryInterface
	pageSize int
}

func NewAuditor(authors authorRepo.RepositoryInterface, books bookRepo.RepositoryInterface, pageSize int) *Auditor {
	if pageSize <= 0 {
		pageSize = DefaultAuditPageSize
	}
	return &Auditor{authors: authors, books: books, pageSize: pageSize}
}

// WithPageSize returns a copy of the auditor using n books per page.
// Non-positive n keeps the current page size.
func (a *Auditor) WithPageSize(n int) *Auditor {
	out := *a
	if n > 0 {
		out.pageSize = n
	}
	return &out
}

// FindDanglingReferences pages through every book and issues one batched
// author fetch per page.
func (a *Auditor) FindDanglingReferences(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{Dangling: []DanglingReference{}}

	for offset := 0; ; offset += a.pageSize {
		page, err := a.books.Find(ctx, bookModel.BookFilter{Limit: a.pageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list books at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		report.Pages++
		report.BooksScanned += int64(len(page))

		ids := make([]int64, 0, len(page))
		for _, b := range page {
			ids = append(ids, b.AuthorID)
		}
		found, err := a.authors.GetByIDs(ctx, utils.DedupeIDs(ids))
		if err != nil {
			return nil, fmt.Errorf("load authors for page %d: %w", report.Pages, err)
		}

		for _, b := range page {
			if _, ok := found[b.AuthorID]; !ok {
				report.Dangling = append(report.Dangling, DanglingReference{
					BookID:   b.ID,
					Title:    b.Title,
					AuthorID: b.AuthorID,
				})
			}
		}

		if len(page) < a.pageSize {
			break
		}
	}

	return report, nil
}
