package repository

import (
	"context"
	"sync"
	"time"

	"ecommerce-api/internal/model"

	"github.com/rs/zerolog"
)

// memoryRepository implements ProductRepository with an in-process map.
type memoryRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	nextID   int64
	logger   zerolog.Logger
}

// NewMemoryProductRepository creates a product repository that keeps everything in memory.
// Data is lost when the process exits.
func NewMemoryProductRepository(logger zerolog.Logger) ProductRepository {
	return &memoryRepository{
		products: make(map[int64]model.Product),
		logger:   logger.With().Str("repository", "product-memory").Logger(),
	}
}

func (r *memoryRepository) Create(ctx context.Context, p *model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = *p

	r.logger.Debug().Int64("product_id", p.ID).Msg("product stored")
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memoryRepository) List(ctx context.Context, q model.ListQuery) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// ids are dense and increasing, so walking them yields ID order
	products := []model.Product{}
	skipped := 0
	for id := int64(1); id <= r.nextID && len(products) < q.Limit; id++ {
		p, ok := r.products[id]
		if !ok || (q.Category != "" && p.Category != q.Category) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *memoryRepository) Update(ctx context.Context, id int64, req *model.UpdateProductRequest, updatedAt time.Time) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}

	req.Apply(&p)
	p.UpdatedAt = updatedAt
	r.products[id] = p

	return &p, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *memoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
