package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"product-engine/internal/clients"
	"product-engine/internal/domain"
)

type ProductCatalogStore interface {
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeleteByCode(ctx context.Context, code string) error
}

// ProductService manages the catalog. Reads by code go through a short-TTL
// redis cache; cache trouble degrades to plain DB reads and never fails a
// request.
type ProductService struct {
	repo     ProductCatalogStore
	redis    *clients.RedisClient
	cacheTTL time.Duration
}

func NewProductService(repo ProductCatalogStore, redis *clients.RedisClient, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		repo:     repo,
		redis:    redis,
		cacheTTL: cacheTTL,
	}
}

func productCacheKey(code string) string {
	return "product:" + code
}

func (s *ProductService) cached(ctx context.Context, code string) *domain.Product {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil
	}

	data, err := s.redis.Get(ctx, productCacheKey(code))
	if err != nil {
		return nil
	}

	var p domain.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil
	}
	return &p
}

func (s *ProductService) storeInCache(ctx context.Context, p *domain.Product) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, productCacheKey(p.ProductCode), string(data), s.cacheTTL); err != nil {
		log.Printf("[cache] set product %q: %v", p.ProductCode, err)
	}
}

func (s *ProductService) dropFromCache(ctx context.Context, code string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, productCacheKey(code)); err != nil {
		log.Printf("[cache] del product %q: %v", code, err)
	}
}

// Get returns the product with the given code or domain.ErrNotFound.
func (s *ProductService) Get(ctx context.Context, code string) (*domain.Product, error) {
	if p := s.cached(ctx, code); p != nil {
		return p, nil
	}

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	s.storeInCache(ctx, p)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Create validates the bound pairs (max >= min, creation-time only) and
// inserts the product. A duplicate code or display name yields
// domain.ErrConflict.
func (s *ProductService) Create(ctx context.Context, p domain.Product) error {
	if p.MaxLoadTerm < p.MinLoadTerm ||
		p.MaxPrincipalAmount < p.MinPrincipalAmount ||
		p.MaxInterest < p.MinInterest ||
		p.MaxOriginationAmount < p.MinOriginationAmount {
		return domain.NewBusinessError("max must be greater than min for every bound pair")
	}

	existing, err := s.repo.FindByCode(ctx, p.ProductCode)
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	if existing != nil {
		return domain.ErrConflict
	}

	// The pre-check cannot catch a concurrent insert or a duplicate display
	// name; the unique constraints still back it up.
	if _, err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create product: %w", err)
	}

	s.dropFromCache(ctx, p.ProductCode)
	return nil
}

// Delete removes the product with the given code; deleting an absent product
// succeeds.
func (s *ProductService) Delete(ctx context.Context, code string) error {
	if err := s.repo.DeleteByCode(ctx, code); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.dropFromCache(ctx, code)
	return nil
}
