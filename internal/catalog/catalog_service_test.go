package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/catalog/cache"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error
	getCalls int
}

func (m *mockRepository) ListProducts(_ context.Context, category string) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepository) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	created := *product
	created.ID = fmt.Sprintf("p-%d", len(m.products)+1)
	m.products[created.ID] = &created
	return &created, nil
}

func (m *mockRepository) UpdateProduct(_ context.Context, id string, update ProductUpdate) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	return nil
}

func (m *mockRepository) DeleteProduct(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockCache struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error
}

func newMockCache() *mockCache {
	return &mockCache{products: make(map[string]*domain.Product)}
}

func (m *mockCache) Get(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) Set(_ context.Context, product *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[product.ID] = product
	return m.err
}

func (m *mockCache) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, id)
	return m.err
}

func (m *mockCache) get(id string) *domain.Product {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.products[id]
}

func TestGetProduct_CacheMissFallsBackToRepo(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{
		"p-1": {ID: "p-1", Title: "Laptop", Price: 1299.99},
	}}
	mockC := newMockCache()

	sut := NewService(repo, mockC)
	ret, err := sut.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", ret.Title)

	require.Eventually(t, func() bool {
		return mockC.get("p-1") != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "product was not set in cache")
}

func TestGetProduct_CacheHit(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{}} // repo should NOT be hit
	mockC := newMockCache()
	mockC.products["p-1"] = &domain.Product{ID: "p-1", Title: "Cached"}

	sut := NewService(repo, mockC)
	ret, err := sut.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Cached", ret.Title)
	assert.Equal(t, 0, repo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{}}
	sut := NewService(repo, newMockCache())

	ret, err := sut.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, ret)
}

func TestListProducts_FiltersByCategory(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{
		"p-1": {ID: "p-1", Category: "electronics"},
		"p-2": {ID: "p-2", Category: "books"},
	}}
	sut := NewService(repo, newMockCache())

	ret, err := sut.ListProducts(context.Background(), "books")
	require.NoError(t, err)
	require.Len(t, ret, 1)
	assert.Equal(t, "p-2", ret[0].ID)
}

func TestCreateProduct_AssignsID(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{}}
	sut := NewService(repo, newMockCache())

	created, err := sut.CreateProduct(context.Background(), &domain.Product{Title: "Laptop"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{
		"p-1": {ID: "p-1", Title: "Laptop", Price: 10},
	}}
	mockC := newMockCache()
	mockC.products["p-1"] = &domain.Product{ID: "p-1", Title: "Laptop", Price: 10}

	sut := NewService(repo, mockC)
	newTitle := "Laptop Pro"
	err := sut.UpdateProduct(context.Background(), "p-1", ProductUpdate{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "Laptop Pro", repo.products["p-1"].Title)
	assert.Nil(t, mockC.get("p-1"))
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	repo := &mockRepository{products: map[string]*domain.Product{
		"p-1": {ID: "p-1", Title: "Laptop"},
	}}
	mockC := newMockCache()
	mockC.products["p-1"] = &domain.Product{ID: "p-1", Title: "Laptop"}

	sut := NewService(repo, mockC)
	err := sut.DeleteProduct(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Empty(t, repo.products)
	assert.Nil(t, mockC.get("p-1"))
}

func TestUpdateProduct_RepoError(t *testing.T) {
	repo := &mockRepository{
		products: map[string]*domain.Product{},
		err:      fmt.Errorf("database error"),
	}
	sut := NewService(repo, newMockCache())

	err := sut.UpdateProduct(context.Background(), "p-1", ProductUpdate{})
	require.ErrorContains(t, err, "database error")
}
