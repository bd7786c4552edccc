// Package catalog serves product reads through the cache and announces
// product changes so other instances drop their cached copies.
package catalog

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/storefront/internal/cache"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/realtime"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

type Service struct {
	products repo.ProductRepository
	cache    cache.ProductCache
	events   realtime.Publisher
	logger   *zap.Logger
}

func NewService(products repo.ProductRepository, c cache.ProductCache, events realtime.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, cache: c, events: events, logger: logger}
}

// Get reads through the cache. Cache failures degrade to a repository read.
func (s *Service) Get(ctx context.Context, id int) (models.Product, error) {
	p, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("product cache read failed", zap.Int("product_id", id), zap.Error(err))
	}
	if ok {
		return p, nil
	}

	p, err = s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.logger.Warn("product cache write failed", zap.Int("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *Service) Search(ctx context.Context, pf repo.ProductFilter) ([]models.Product, int, error) {
	return s.products.Filter(ctx, pf)
}

func (s *Service) Create(ctx context.Context, p models.Product) (models.Product, error) {
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.Int("product_id", created.ID), zap.String("title", created.Title))
	return created, nil
}

func (s *Service) Update(ctx context.Context, p models.Product) (models.Product, error) {
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	s.changed(ctx, realtime.ProductUpdated, updated.ID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.changed(ctx, realtime.ProductDeleted, id)
	return nil
}

// changed drops the local cache entry and tells everyone else to do the same.
func (s *Service) changed(ctx context.Context, t realtime.EventType, id int) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Int("product_id", id), zap.Error(err))
	}
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, realtime.NewProductEvent(t, id)); err != nil {
		s.logger.Warn("product event publish failed",
			zap.String("type", string(t)),
			zap.Int("product_id", id),
			zap.Error(err),
		)
	}
}

// Seed loads products into an empty catalog and reports how many were added.
func (s *Service) Seed(ctx context.Context, products []models.Product) (int, error) {
	existing, err := s.products.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, p := range products {
		if _, err := s.products.Create(ctx, p); err != nil {
			return i, fmt.Errorf("seed %q: %w", p.Title, err)
		}
	}
	return len(products), nil
}
