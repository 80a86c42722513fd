package service

import (
	"context"

	"ecommerce-api/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// ListByCategory retrieves products, filtered by category when it is non-empty.
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Update merges the supplied fields into an existing product.
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error

	// Ping reports whether the product store is reachable.
	Ping(ctx context.Context) error
}
