package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookgraph/internal/domains/book/model"
	"bookgraph/internal/shared/apperr"
	"bookgraph/internal/shared/utils"
)

const bookColumns = `id, title, description, price, author_id, published_date, is_available, created_at, updated_at`

// postgresRepository - Raw SQL with pgxpool on store B.
// author_id carries no foreign key: authors live in another database.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
		INSERT INTO books (title, description, price, author_id, published_date, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookColumns

	created, err := scanBook(r.pool.QueryRow(ctx, query,
		b.Title, b.Description, b.Price, b.AuthorID, b.PublishedDate, b.IsAvailable, b.CreatedAt, b.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("book", id)
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) Find(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	whereClause, args := buildWhereClause(filter)

	var q strings.Builder
	q.WriteString(`SELECT ` + bookColumns + ` FROM books ` + whereClause + ` ORDER BY id`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		q.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
		UPDATE books
		SET title = $2, description = $3, price = $4, author_id = $5,
		    published_date = $6, is_available = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Description, b.Price, b.AuthorID, b.PublishedDate, b.IsAvailable, b.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("book", b.ID)
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter model.BookFilter) (int64, error) {
	whereClause, args := buildWhereClause(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books `+whereClause, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return exists, nil
}

// buildWhereClause - Build WHERE clause & args from filter
func buildWhereClause(filter model.BookFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(filter.AuthorIDs) > 0 {
		args = append(args, filter.AuthorIDs)
		conditions = append(conditions, fmt.Sprintf("author_id = ANY($%d)", len(args)))
	}
	if filter.IsAvailable != nil {
		args = append(args, *filter.IsAvailable)
		conditions = append(conditions, fmt.Sprintf("is_available = $%d", len(args)))
	}

	return "WHERE " + utils.JoinWithAnd(conditions), args
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.Price,
		&b.AuthorID,
		&b.PublishedDate,
		&b.IsAvailable,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
