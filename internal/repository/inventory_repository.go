package repository

import (
	"database/sql"

	"storefront/internal/domain"
)

// NewInventoryRepository instantiates the generic resource repository for the
// inventory table. product_id is a required foreign key; inserts referencing a
// missing product surface ErrForeignKeyViolation.
func NewInventoryRepository(db *sql.DB) ResourceRepository[domain.Inventory] {
	return NewResourceRepository(db, Descriptor[domain.Inventory]{
		Table:   "inventory",
		Columns: []string{"product_id", "quantity", "location"},
		Values: func(i *domain.Inventory) []any {
			return []any{i.ProductID, i.Quantity, i.Location}
		},
		Fields: func(i *domain.Inventory) []any {
			return []any{&i.ID, &i.ProductID, &i.Quantity, &i.Location, &i.CreatedAt, &i.UpdatedAt}
		},
	})
}
