package service

import (
	"context"
	"errors"
	"testing"

	"product-engine/internal/domain"
)

type fakeCatalogStore struct {
	byCode  map[string]domain.Product
	nextID  int64
	deletes int
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{byCode: map[string]domain.Product{}}
}

func (f *fakeCatalogStore) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	p, ok := f.byCode[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalogStore) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.byCode {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogStore) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if _, ok := f.byCode[p.ProductCode]; ok {
		return nil, domain.ErrConflict
	}
	for _, existing := range f.byCode {
		if existing.NameAndVersion == p.NameAndVersion {
			return nil, domain.ErrConflict
		}
	}

	f.nextID++
	p.ID = f.nextID
	f.byCode[p.ProductCode] = p
	return &p, nil
}

func (f *fakeCatalogStore) DeleteByCode(ctx context.Context, code string) error {
	f.deletes++
	delete(f.byCode, code)
	return nil
}

// the cache is optional; all tests run without redis
func newCatalogService(store *fakeCatalogStore) *ProductService {
	return NewProductService(store, nil, 0)
}

func TestProductCreate_RejectsInvertedBounds(t *testing.T) {
	store := newFakeCatalogStore()
	svc := newCatalogService(store)

	p := testProduct()
	p.MaxLoadTerm = p.MinLoadTerm - 1

	err := svc.Create(context.Background(), p)
	if _, ok := domain.AsBusinessError(err); !ok {
		t.Fatalf("expected business error, got %v", err)
	}
	if len(store.byCode) != 0 {
		t.Fatal("invalid product must not be stored")
	}
}

func TestProductCreate_DuplicateCodeConflicts(t *testing.T) {
	store := newFakeCatalogStore()
	svc := newCatalogService(store)

	if err := svc.Create(context.Background(), testProduct()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := testProduct()
	dup.NameAndVersion = "Cash Loan v2"

	if err := svc.Create(context.Background(), dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProductCreate_DuplicateNameConflicts(t *testing.T) {
	store := newFakeCatalogStore()
	svc := newCatalogService(store)

	if err := svc.Create(context.Background(), testProduct()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// new code but the display name collides at the storage layer
	dup := testProduct()
	dup.ProductCode = "P2"

	if err := svc.Create(context.Background(), dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProductGet(t *testing.T) {
	store := newFakeCatalogStore()
	svc := newCatalogService(store)

	if _, err := svc.Get(context.Background(), "P1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Create(context.Background(), testProduct()); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := svc.Get(context.Background(), "P1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ProductCode != "P1" || p.MaxLoadTerm != 36 {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestProductDelete_AbsentIsNoError(t *testing.T) {
	store := newFakeCatalogStore()
	svc := newCatalogService(store)

	if err := svc.Delete(context.Background(), "GONE"); err != nil {
		t.Fatalf("deleting an absent product must succeed, got %v", err)
	}
	if store.deletes != 1 {
		t.Fatal("delete should reach the store")
	}
}
