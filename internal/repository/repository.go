package repository

import (
	"context"
	"time"

	"ecommerce-api/internal/model"
)

// ProductRepository defines the interface for product data access operations.
// Lookups that find nothing return a nil product and a nil error.
type ProductRepository interface {
	// Create inserts p and fills in its server-assigned ID.
	Create(ctx context.Context, p *model.Product) error

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// List retrieves products ordered by ID, optionally filtered by exact category.
	List(ctx context.Context, q model.ListQuery) ([]model.Product, error)

	// Update merges the non-nil fields of req into the stored product, stamps
	// updatedAt and returns the result.
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest, updatedAt time.Time) (*model.Product, error)

	// Delete removes a product. It reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
