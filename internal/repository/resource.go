package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrForeignKeyViolation = errors.New("referenced row does not exist")
	ErrDuplicateKey        = errors.New("duplicate value for unique column")
)

// Descriptor maps a resource type onto its table. Columns excludes id and the
// timestamp columns, which every table carries and the database maintains.
type Descriptor[T any] struct {
	// Table is the table name.
	Table string
	// Columns are the writable columns, in the order Values returns them.
	Columns []string
	// Values returns the column values of a record for INSERT/UPDATE.
	Values func(*T) []any
	// Fields returns scan targets for a full row:
	// id, Columns..., created_at, updated_at.
	Fields func(*T) []any
}

// ResourceRepository is the generic data access contract shared by categories,
// products and inventory.
type ResourceRepository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	Insert(ctx context.Context, record *T) (int64, error)
	Update(ctx context.Context, id int64, record *T) error
	Delete(ctx context.Context, id int64) error
}

type resourceRepository[T any] struct {
	db   *sql.DB
	desc Descriptor[T]

	listQuery   string
	insertQuery string
	updateQuery string
	deleteQuery string
}

// NewResourceRepository builds a repository for one resource table. The SQL is
// assembled once from the descriptor; all queries are parameterized.
func NewResourceRepository[T any](db *sql.DB, desc Descriptor[T]) ResourceRepository[T] {
	cols := strings.Join(desc.Columns, ", ")

	placeholders := make([]string, len(desc.Columns))
	assignments := make([]string, len(desc.Columns))
	for i, col := range desc.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		// $1 is reserved for the id in UPDATE.
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}

	return &resourceRepository[T]{
		db:   db,
		desc: desc,
		listQuery: fmt.Sprintf(
			"SELECT id, %s, created_at, updated_at FROM %s ORDER BY id",
			cols, desc.Table,
		),
		insertQuery: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			desc.Table, cols, strings.Join(placeholders, ", "),
		),
		updateQuery: fmt.Sprintf(
			"UPDATE %s SET %s, updated_at = now() WHERE id = $1",
			desc.Table, strings.Join(assignments, ", "),
		),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE id = $1", desc.Table),
	}
}

// List returns every row in id order.
func (r *resourceRepository[T]) List(ctx context.Context) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx, r.listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.desc.Table, err)
	}
	defer rows.Close()

	records := []*T{}
	for rows.Next() {
		record := new(T)
		if err := rows.Scan(r.desc.Fields(record)...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.desc.Table, err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.desc.Table, err)
	}

	return records, nil
}

// Insert creates a row and returns the generated id.
func (r *resourceRepository[T]) Insert(ctx context.Context, record *T) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.insertQuery, r.desc.Values(record)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", r.desc.Table, mapConstraintError(err))
	}
	return id, nil
}

// Update replaces all writable columns of the row matching id. A missing id is
// not an error: the statement affects zero rows and the call succeeds.
func (r *resourceRepository[T]) Update(ctx context.Context, id int64, record *T) error {
	args := append([]any{id}, r.desc.Values(record)...)
	if _, err := r.db.ExecContext(ctx, r.updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", r.desc.Table, mapConstraintError(err))
	}
	return nil
}

// Delete removes the row matching id. Dependent rows go with it via the ON
// DELETE CASCADE constraints. A missing id is not an error.
func (r *resourceRepository[T]) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.deleteQuery, id); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.desc.Table, err)
	}
	return nil
}

// mapConstraintError translates Postgres constraint violations to sentinels.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ErrForeignKeyViolation
		case "23505":
			return ErrDuplicateKey
		}
	}
	return err
}
