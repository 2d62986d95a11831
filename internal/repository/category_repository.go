package repository

import (
	"database/sql"

	"storefront/internal/domain"
)

// NewCategoryRepository instantiates the generic resource repository for the
// categories table.
func NewCategoryRepository(db *sql.DB) ResourceRepository[domain.Category] {
	return NewResourceRepository(db, Descriptor[domain.Category]{
		Table:   "categories",
		Columns: []string{"name", "note"},
		Values: func(c *domain.Category) []any {
			return []any{c.Name, c.Note}
		},
		Fields: func(c *domain.Category) []any {
			return []any{&c.ID, &c.Name, &c.Note, &c.CreatedAt, &c.UpdatedAt}
		},
	})
}
