package repository

import (
	"database/sql"

	"storefront/internal/domain"
)

// NewProductRepository instantiates the generic resource repository for the
// products table. category_id is nullable; the delete cascade from categories
// is declared in the schema, not here.
func NewProductRepository(db *sql.DB) ResourceRepository[domain.Product] {
	return NewResourceRepository(db, Descriptor[domain.Product]{
		Table:   "products",
		Columns: []string{"name", "description", "price", "category_id"},
		Values: func(p *domain.Product) []any {
			return []any{p.Name, p.Description, p.Price, p.CategoryID}
		},
		Fields: func(p *domain.Product) []any {
			return []any{&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt}
		},
	})
}
