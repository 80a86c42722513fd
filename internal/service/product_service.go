package service

import (
	"context"
	"fmt"
	"time"

	"ecommerce-api/internal/events"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/validation"

	"github.com/rs/zerolog"
)

const (
	defaultLimit   = 10
	maxLimit       = 100
	publishTimeout = 5 * time.Second
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	validator   *validation.Validator
	publisher   events.Publisher
	now         func() time.Time
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	validator *validation.Validator,
	publisher events.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		validator:   validator,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Debug().Err(err).Msg("rejected product payload")
		return nil, err
	}

	if req.ID != nil {
		s.logger.Debug().Int64("client_id", *req.ID).Msg("ignoring client supplied product ID")
	}

	now := s.now()
	product := &model.Product{
		Name:      req.Name,
		Desc:      req.Desc,
		Price:     *req.Price,
		Image:     req.Image,
		Category:  req.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Str("category", product.Category).
		Msg("product created")

	s.publish(ctx, events.ActionCreated, product.ID, product)

	return product, nil
}

// ListByCategory retrieves products with pagination.
// A non-empty category that matches nothing is reported as ErrProductNotFound.
func (s *productService) ListByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.List(ctx, model.ListQuery{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if len(products) == 0 && category != "" {
		s.logger.Debug().Str("category", category).Msg("no products in category")
		return nil, model.ErrProductNotFound
	}

	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("category", category).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("product ID is not positive")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Update merges the supplied fields and refreshes the update timestamp.
func (s *productService) Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Debug().Err(err).Int64("product_id", id).Msg("rejected product update payload")
		return nil, err
	}

	if id <= 0 {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.Update(ctx, id, req, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product to update not found")
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	s.publish(ctx, events.ActionUpdated, id, product)

	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrProductNotFound
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if !deleted {
		s.logger.Debug().Int64("product_id", id).Msg("product to delete not found")
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	s.publish(ctx, events.ActionDeleted, id, nil)

	return nil
}

// Ping reports whether the product store is reachable.
func (s *productService) Ping(ctx context.Context) error {
	return s.productRepo.Ping(ctx)
}

// publish emits a product event. Delivery failures are logged, never returned:
// the change is already committed.
func (s *productService) publish(ctx context.Context, action events.Action, id int64, product *model.Product) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.Event{
		Action:     action,
		ProductID:  id,
		Product:    product,
		OccurredAt: s.now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", event.Key()).
			Msg("failed to publish product event")
	}
}
