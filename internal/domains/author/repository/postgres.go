package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookgraph/internal/domains/author/model"
	"bookgraph/internal/shared/apperr"
	"bookgraph/internal/shared/utils"
)

const uniqueViolation = "23505"

const authorColumns = `id, name, email, date_of_birth, created_at, updated_at`

// postgresRepository implements RepositoryInterface on store A.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates an Author accessor over the Author store pool.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, email, date_of_birth, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, query,
		a.Name, a.Email, a.DateOfBirth, a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		if isEmailConflict(err) {
			return nil, apperr.DuplicateKey("email", a.Email)
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("author", id)
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

// GetByIDs issues a single ANY($1) query for the whole id set.
func (r *postgresRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Author, error) {
	result := make(map[int64]*model.Author, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		result[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *postgresRepository) Find(ctx context.Context, filter model.AuthorFilter) ([]*model.Author, error) {
	whereClause, args := buildWhereClause(filter)

	var q strings.Builder
	q.WriteString(`SELECT ` + authorColumns + ` FROM authors ` + whereClause + ` ORDER BY id`)
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
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]*model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return authors, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $2, email = $3, date_of_birth = $4, updated_at = $5
        WHERE id = $1
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Email, a.DateOfBirth, a.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("author", a.ID)
		}
		if isEmailConflict(err) {
			return nil, apperr.DuplicateKey("email", a.Email)
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete author: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter model.AuthorFilter) (int64, error) {
	whereClause, args := buildWhereClause(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors `+whereClause, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

// buildWhereClause translates the filter into a WHERE clause with positional args.
func buildWhereClause(filter model.AuthorFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Email != "" {
		args = append(args, model.NormalizeEmail(filter.Email))
		conditions = append(conditions, fmt.Sprintf("LOWER(email) = $%d", len(args)))
	}
	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	return "WHERE " + utils.JoinWithAnd(conditions), args
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.DateOfBirth, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// isEmailConflict reports a violation of the LOWER(email) unique index.
func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
