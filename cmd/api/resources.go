package main

import (
	"context"
	"fmt"

	"ecommerce-api/internal/config"
	"ecommerce-api/internal/database"
	"ecommerce-api/internal/events"
	"ecommerce-api/internal/imagestore"
	"ecommerce-api/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// resources tracks everything that must be released on shutdown, in reverse
// order of acquisition.
type resources struct {
	closers []func() error
	logger  zerolog.Logger
}

func (r *resources) add(name string, fn func() error) {
	r.closers = append(r.closers, func() error {
		if err := fn(); err != nil {
			return fmt.Errorf("failed to close %s: %w", name, err)
		}
		return nil
	})
}

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Error().Err(err).Msg("shutdown")
		}
	}
}

func (r *resources) productRepository(ctx context.Context, cfg *config.Config) (repository.ProductRepository, error) {
	var repo repository.ProductRepository

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		r.logger.Warn().Msg("using in-memory storage, data will not survive a restart")
		repo = repository.NewMemoryProductRepository(r.logger)
	default:
		pool, err := database.NewPool(ctx, cfg.Database, r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		r.add("database pool", func() error {
			pool.Close()
			return nil
		})

		if err := database.Migrate(ctx, pool, r.logger); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		repo = repository.NewProductRepository(pool, r.logger)
	}

	if !cfg.Redis.Enabled {
		return repo, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	r.add("redis client", client.Close)

	if err := client.Ping(ctx).Err(); err != nil {
		// the cache bypasses itself on errors, so an unreachable redis only costs latency
		r.logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable at startup")
	}

	r.logger.Info().
		Str("addr", cfg.Redis.Addr).
		Dur("ttl", cfg.Redis.TTLDuration()).
		Msg("product cache enabled")
	return repository.NewCachedProductRepository(repo, client, cfg.Redis.TTLDuration(), r.logger), nil
}

func (r *resources) imageStore(ctx context.Context, cfg *config.Config) (imagestore.Store, error) {
	local, err := imagestore.NewLocalStore(cfg.Static.UploadDir(), "/uploads", r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	if !cfg.S3.Enabled {
		r.logger.Info().Msg("using local file system for product images (S3 disabled)")
		return local, nil
	}

	s3Store, err := imagestore.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, r.logger)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Msg("failed to initialise S3 image store, falling back to local file system only")
		return local, nil
	}

	return imagestore.NewFallbackStore(s3Store, local, r.logger), nil
}

func (r *resources) publisher(cfg *config.Config) events.Publisher {
	if !cfg.Kafka.Enabled {
		return events.NewNopPublisher()
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, r.logger)
	r.add("kafka publisher", publisher.Close)

	r.logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.Topic).
		Msg("product events enabled")
	return publisher
}
