//go:build ignore

// Checks that the configured database is reachable and reports the state of
// the products table. Run with: go run scripts/test_db_connection.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ecommerce-api/internal/config"

	"github.com/jackc/pgx/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT to_regclass('public.products') IS NOT NULL").Scan(&exists)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	if !exists {
		fmt.Println("products table not found; it is created when the API starts")
		return
	}

	var count int64
	if err := conn.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&count); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("products table contains %d rows\n", count)
}
