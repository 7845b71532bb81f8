package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/catalog/cache"
	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Service fronts the product repository with a read-through cache. Writes
// go straight to the repository and invalidate the cached entry.
type Service struct {
	repo  ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo ProductRepository, cache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), product)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil // product was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// ListProducts bypasses the cache; the catalog listing is already a single
// indexed query.
func (s *Service) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, category)
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		log.Printf("repo create product error: %v", err)
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, update ProductUpdate) error {
	if err := s.repo.UpdateProduct(ctx, id, update); err != nil {
		log.Printf("repo update product error: %v", err)
		return err
	}

	invalidateCache(s, id)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		log.Printf("repo delete product error: %v", err)
		return err
	}

	invalidateCache(s, id)
	return nil
}

func invalidateCache(s *Service, productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
