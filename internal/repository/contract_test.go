package repository

import (
	"context"
	"testing"
	"time"

	"ecommerce-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// testClock returns timestamps truncated to what PostgreSQL stores.
func testClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newTestProduct(name, category string, price float64) *model.Product {
	now := testClock()
	return &model.Product{
		Name:      name,
		Desc:      name + " description",
		Price:     price,
		Image:     "/uploads/" + name + ".jpg",
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// runProductRepositoryContract exercises behaviour every ProductRepository must share.
// newRepo must return an empty repository.
func runProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) ProductRepository) {
	t.Run("Create assigns increasing IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := newTestProduct("Laptop", "electronics", 8000000)
		second := newTestProduct("Chair", "furniture", 150000)

		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("GetByID returns stored fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := newTestProduct("Laptop", "electronics", 8000000)
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Desc, got.Desc)
		assert.Equal(t, p.Price, got.Price)
		assert.Equal(t, p.Image, got.Image)
		assert.Equal(t, p.Category, got.Category)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("GetByID returns nil for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.GetByID(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List filters and paginates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, p := range []*model.Product{
			newTestProduct("A", "electronics", 10),
			newTestProduct("B", "furniture", 20),
			newTestProduct("C", "electronics", 30),
			newTestProduct("D", "electronics", 40),
			newTestProduct("E", "", 50),
		} {
			require.NoError(t, repo.Create(ctx, p))
		}

		tests := []struct {
			name     string
			query    model.ListQuery
			expected []string
		}{
			{
				name:     "All products",
				query:    model.ListQuery{Limit: 10},
				expected: []string{"A", "B", "C", "D", "E"},
			},
			{
				name:     "By category",
				query:    model.ListQuery{Category: "electronics", Limit: 10},
				expected: []string{"A", "C", "D"},
			},
			{
				name:     "By category with pagination",
				query:    model.ListQuery{Category: "electronics", Limit: 1, Offset: 1},
				expected: []string{"C"},
			},
			{
				name:     "Unknown category",
				query:    model.ListQuery{Category: "toys", Limit: 10},
				expected: []string{},
			},
			{
				name:     "Offset beyond results",
				query:    model.ListQuery{Limit: 10, Offset: 10},
				expected: []string{},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				products, err := repo.List(ctx, tt.query)
				require.NoError(t, err)

				names := []string{}
				for _, p := range products {
					names = append(names, p.Name)
				}
				assert.Equal(t, tt.expected, names)
			})
		}
	})

	t.Run("Update merges supplied fields only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := newTestProduct("Laptop", "electronics", 8000000)
		require.NoError(t, repo.Create(ctx, p))

		later := p.UpdatedAt.Add(time.Minute)
		got, err := repo.Update(ctx, p.ID, &model.UpdateProductRequest{
			Name:  ptr("ASUS Vivobook"),
			Price: ptr(8600000.0),
		}, later)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "ASUS Vivobook", got.Name)
		assert.Equal(t, 8600000.0, got.Price)
		assert.Equal(t, p.Desc, got.Desc)
		assert.Equal(t, p.Image, got.Image)
		assert.Equal(t, p.Category, got.Category)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, later.Equal(got.UpdatedAt))

		stored, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Name, stored.Name)
	})

	t.Run("Update can clear optional fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := newTestProduct("Laptop", "electronics", 8000000)
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.Update(ctx, p.ID, &model.UpdateProductRequest{Desc: ptr("")}, testClock())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Desc)
	})

	t.Run("Update returns nil for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.Update(context.Background(), 999, &model.UpdateProductRequest{Name: ptr("x")}, testClock())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete removes product", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := newTestProduct("Laptop", "electronics", 8000000)
		require.NoError(t, repo.Create(ctx, p))

		deleted, err := repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		deleted, err = repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(context.Background()))
	})
}
