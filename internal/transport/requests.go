package transport

import "storefront/internal/domain"

// CategoryRequest is the create/update payload for categories. The note column
// is nullable in storage, but the API has always required it on writes.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Note string `json:"note" validate:"required"`
}

func (r CategoryRequest) ToDomain() *domain.Category {
	return &domain.Category{Name: r.Name, Note: &r.Note}
}

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CategoryID  *int64  `json:"category_id"`
}

func (r ProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
	}
}

// InventoryRequest is the create/update payload for inventory rows. Quantity
// is a pointer so that zero passes validation but a missing field does not.
type InventoryRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required"`
	Location  string `json:"location" validate:"required"`
}

func (r InventoryRequest) ToDomain() *domain.Inventory {
	inv := &domain.Inventory{
		ProductID: r.ProductID,
		Location:  r.Location,
	}
	if r.Quantity != nil {
		inv.Quantity = *r.Quantity
	}
	return inv
}

// Route and wording configuration for the three resource handler instances.
var (
	CategoryConfig = ResourceConfig{
		Singular: "Category",
		Plural:   "categories",
		IDKey:    "categoryId",
		Path:     "/api/category",
	}

	ProductConfig = ResourceConfig{
		Singular: "Product",
		Plural:   "products",
		IDKey:    "productId",
		Path:     "/api/products",
	}

	InventoryConfig = ResourceConfig{
		Singular: "Inventory",
		Plural:   "inventory",
		IDKey:    "inventoryId",
		Path:     "/api/inventory",
	}
)
