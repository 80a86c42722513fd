//go:build ignore

// Inserts a small sample catalogue into the configured database.
// Run with: go run scripts/seed_products.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ecommerce-api/internal/config"
	"ecommerce-api/internal/database"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to migrate database: %v\n", err)
		os.Exit(1)
	}

	repo := repository.NewProductRepository(pool, logger)
	now := time.Now().UTC().Truncate(time.Microsecond)

	products := []model.Product{
		{Name: "ASUS Vivobook 14", Desc: "14-inch laptop, 16GB RAM", Price: 8600000, Category: "electronics"},
		{Name: "Logitech MX Master 3S", Desc: "Wireless mouse", Price: 1500000, Category: "electronics"},
		{Name: "Kopi Arabika Gayo", Desc: "Single origin, 250g", Price: 95000, Category: "groceries"},
		{Name: "Canvas Tote Bag", Price: 120000, Category: "fashion"},
		{Name: "Clean Code", Desc: "Robert C. Martin", Price: 450000, Category: "books"},
	}

	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
		if err := repo.Create(ctx, &products[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to insert %s: %v\n", products[i].Name, err)
			os.Exit(1)
		}
		fmt.Printf("Inserted product %d: %s\n", products[i].ID, products[i].Name)
	}
}
