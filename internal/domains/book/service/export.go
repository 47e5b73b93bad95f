package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/domains/resolver"
)

const (
	exportSheetName = "Books"
	maxExportRows   = 10000
)

var ErrExportDisabled = errors.New("book export is not configured")

// ViewLister is the read side the export needs.
type ViewLister interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]*resolver.BookView, error)
}

func (s *BookService) ExportBooksToExcel(ctx context.Context, filter model.BookFilter) (*excelize.File, int, error) {
	if s.views == nil {
		return nil, 0, ErrExportDisabled
	}
	if filter.Limit <= 0 || filter.Limit > maxExportRows {
		filter.Limit = maxExportRows
	}

	views, err := s.views.ListBooks(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(views)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, len(views), nil
}

func buildBooksExcelFile(views []*resolver.BookView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	headers := []string{
		"ID",
		"Title",
		"Author",
		"Price",
		"Published",
		"Age (years)",
		"Available",
		"Has Valid Author",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(exportSheetName, "A1", "H1", headerStyle)
	}

	for i, v := range views {
		row := i + 2
		author := ""
		if v.AuthorName != nil {
			author = *v.AuthorName
		}
		values := []interface{}{
			v.ID,
			v.Title,
			author,
			v.FormattedPrice,
			v.PublishedDate.Format("2006-01-02"),
			v.AgeYears,
			v.IsAvailable,
			v.HasValidAuthor,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(exportSheetName, "A", "H", 18)
	return f, nil
}
