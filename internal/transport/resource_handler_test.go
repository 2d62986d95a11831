package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// mockResourceRepository is an in-memory ResourceRepository with the same
// silent-success semantics as the SQL one.
type mockResourceRepository[T any] struct {
	records map[int64]*T
	nextID  int64
	setID   func(*T, int64)

	insertErr error
	failAll   bool
}

func newMockResourceRepository[T any](setID func(*T, int64)) *mockResourceRepository[T] {
	return &mockResourceRepository[T]{records: make(map[int64]*T), setID: setID}
}

func (m *mockResourceRepository[T]) List(ctx context.Context) ([]*T, error) {
	if m.failAll {
		return nil, fmt.Errorf("connection refused")
	}
	out := []*T{}
	for id := int64(1); id <= m.nextID; id++ {
		if rec, ok := m.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockResourceRepository[T]) Insert(ctx context.Context, record *T) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	m.setID(record, m.nextID)
	m.records[m.nextID] = record
	return m.nextID, nil
}

func (m *mockResourceRepository[T]) Update(ctx context.Context, id int64, record *T) error {
	if _, ok := m.records[id]; ok {
		m.setID(record, id)
		m.records[id] = record
	}
	// Missing ids succeed silently
	return nil
}

func (m *mockResourceRepository[T]) Delete(ctx context.Context, id int64) error {
	delete(m.records, id)
	return nil
}

func newCategoryRouter(repo repository.ResourceRepository[domain.Category]) chi.Router {
	router := chi.NewRouter()
	logger := zap.NewNop()
	NewResourceHandler[CategoryRequest, domain.Category](repo, CategoryConfig, logger).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doRequest(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateCategoryReturnsGeneratedID(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	router := newCategoryRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/api/category", map[string]string{
		"name": "Figures",
		"note": "Scale models",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "Category added" {
		t.Errorf("expected message %q, got %v", "Category added", resp["message"])
	}
	if id, ok := resp["categoryId"].(float64); !ok || id != 1 {
		t.Errorf("expected categoryId 1, got %v", resp["categoryId"])
	}

	// The created record shows up in the list with its submitted values
	w = doJSON(t, router, http.MethodGet, "/api/category", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var categories []domain.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}
	c := categories[0]
	if c.ID != 1 || c.Name != "Figures" || c.Note == nil || *c.Note != "Scale models" {
		t.Errorf("unexpected record: %+v", c)
	}
}

func TestCreateCategoryMissingFieldReturns400(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	router := newCategoryRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/api/category", map[string]string{"name": "Figures"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error.Message != "All fields are required" {
		t.Errorf("expected %q, got %q", "All fields are required", resp.Error.Message)
	}
	if len(repo.records) != 0 {
		t.Error("validation failure must not insert a row")
	}
}

func TestCreateProductMissingPriceReturns400(t *testing.T) {
	repo := newMockResourceRepository(func(p *domain.Product, id int64) { p.ID = id })
	router := chi.NewRouter()
	NewResourceHandler[ProductRequest, domain.Product](repo, ProductConfig, zap.NewNop()).RegisterRoutes(router)

	w := doJSON(t, router, http.MethodPost, "/api/products", map[string]any{
		"name":        "Goku Figure",
		"description": "Limited edition",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error.Message != "All fields are required" {
		t.Errorf("expected %q, got %q", "All fields are required", resp.Error.Message)
	}
}

func TestUpdateMissingIDStillSucceeds(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	router := newCategoryRouter(repo)

	w := doJSON(t, router, http.MethodPut, "/api/category/424242", map[string]string{
		"name": "Ghost",
		"note": "not there",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for missing id, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "Category updated" {
		t.Errorf("expected message %q, got %v", "Category updated", resp["message"])
	}
}

func TestDeleteCategory(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	router := newCategoryRouter(repo)

	doJSON(t, router, http.MethodPost, "/api/category", map[string]string{"name": "Figures", "note": "x"})

	w := doJSON(t, router, http.MethodDelete, "/api/category/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(repo.records) != 0 {
		t.Error("record not deleted")
	}

	// Deleting again still succeeds
	w = doJSON(t, router, http.MethodDelete, "/api/category/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeated delete, got %d", w.Code)
	}
}

func TestInventoryForeignKeyViolationReturns500(t *testing.T) {
	repo := newMockResourceRepository(func(i *domain.Inventory, id int64) { i.ID = id })
	repo.insertErr = fmt.Errorf("failed to insert into inventory: %w", repository.ErrForeignKeyViolation)
	router := chi.NewRouter()
	NewResourceHandler[InventoryRequest, domain.Inventory](repo, InventoryConfig, zap.NewNop()).RegisterRoutes(router)

	w := doJSON(t, router, http.MethodPost, "/api/inventory", map[string]any{
		"product_id": 5,
		"quantity":   10,
		"location":   "Warehouse A",
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for foreign key violation, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInventoryQuantityZeroIsValid(t *testing.T) {
	repo := newMockResourceRepository(func(i *domain.Inventory, id int64) { i.ID = id })
	router := chi.NewRouter()
	NewResourceHandler[InventoryRequest, domain.Inventory](repo, InventoryConfig, zap.NewNop()).RegisterRoutes(router)

	w := doJSON(t, router, http.MethodPost, "/api/inventory", map[string]any{
		"product_id": 1,
		"quantity":   0,
		"location":   "Warehouse A",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for quantity 0, got %d: %s", w.Code, w.Body.String())
	}

	// But a missing quantity is rejected
	w = doJSON(t, router, http.MethodPost, "/api/inventory", map[string]any{
		"product_id": 1,
		"location":   "Warehouse A",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity, got %d", w.Code)
	}
}

func TestListStorageFailureReturns500(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	repo.failAll = true
	router := newCategoryRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/api/category", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error.Message != "Failed to fetch categories" {
		t.Errorf("expected %q, got %q", "Failed to fetch categories", resp.Error.Message)
	}
}

func TestUpdateWithMalformedIDReturns400(t *testing.T) {
	repo := newMockResourceRepository(func(c *domain.Category, id int64) { c.ID = id })
	router := newCategoryRouter(repo)

	w := doJSON(t, router, http.MethodPut, "/api/category/abc", map[string]string{"name": "x", "note": "y"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}
