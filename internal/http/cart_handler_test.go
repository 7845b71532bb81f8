package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogMock struct {
	products map[string]*domain.Product
	err      error
}

func (m catalogMock) ListProducts(_ context.Context, category string) ([]*domain.Product, error) {
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

func (m catalogMock) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m catalogMock) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *product
	created.ID = "p-new"
	return &created, nil
}

func (m catalogMock) UpdateProduct(_ context.Context, id string, _ catalog.ProductUpdate) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	return nil
}

func (m catalogMock) DeleteProduct(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	return nil
}

func laptopCatalog() catalogMock {
	return catalogMock{products: map[string]*domain.Product{
		"p-1": {ID: "p-1", Title: "Laptop", Price: 10, Image: "https://example.com/laptop.jpg"},
	}}
}

// newCartRequest builds a request carrying a cart session id, as the
// middleware would.
func newCartRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), cartSessionContextKey{}, "session-1")
	return req.WithContext(ctx)
}

func TestAddItem_CreatesLineItem(t *testing.T) {
	carts := cart.NewRegistry()
	h := NewCartHandler(carts, laptopCatalog(), time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p-1", Quantity: 2})
	req := newCartRequest(http.MethodPost, "/api/v1/cart/items", body)
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p-1", state.Items[0].ProductID)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 20.0, state.TotalPrice)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	carts := cart.NewRegistry()
	h := NewCartHandler(carts, laptopCatalog(), time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p-1"})
	req := newCartRequest(http.MethodPost, "/api/v1/cart/items", body)
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, carts.Get("session-1").Snapshot().TotalItems)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	h := NewCartHandler(cart.NewRegistry(), laptopCatalog(), time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "missing"})
	req := newCartRequest(http.MethodPost, "/api/v1/cart/items", body)
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItem_NegativeQuantity(t *testing.T) {
	carts := cart.NewRegistry()
	h := NewCartHandler(carts, laptopCatalog(), time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p-1", Quantity: -2})
	req := newCartRequest(http.MethodPost, "/api/v1/cart/items", body)
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, carts.Get("session-1").Snapshot().Items)
}

func TestAddItem_MissingCartSession(t *testing.T) {
	h := NewCartHandler(cart.NewRegistry(), laptopCatalog(), time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCart_RefreshesDisplayFields(t *testing.T) {
	carts := cart.NewRegistry()
	// stale title in the cart, fresh one in the catalog
	_, err := carts.Get("session-1").AddItem(domain.Product{ID: "p-1", Title: "Old Laptop", Price: 10}, 1)
	require.NoError(t, err)

	h := NewCartHandler(carts, laptopCatalog(), time.Second)
	req := newCartRequest(http.MethodGet, "/api/v1/cart/", nil)
	w := httptest.NewRecorder()
	h.GetCart(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Laptop", state.Items[0].Title)
	// price stays as recorded at add time
	assert.Equal(t, 10.0, state.Items[0].Price)
}

func TestRemoveItem_ViaURLParam(t *testing.T) {
	carts := cart.NewRegistry()
	_, err := carts.Get("session-1").AddItem(domain.Product{ID: "p-1", Price: 10}, 1)
	require.NoError(t, err)

	h := NewCartHandler(carts, laptopCatalog(), time.Second)

	req := newCartRequest(http.MethodDelete, "/api/v1/cart/items/p-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", "p-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.RemoveItem(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, carts.Get("session-1").Snapshot().Items)
}

func TestClearCart(t *testing.T) {
	carts := cart.NewRegistry()
	_, err := carts.Get("session-1").AddItem(domain.Product{ID: "p-1", Price: 10}, 3)
	require.NoError(t, err)

	h := NewCartHandler(carts, laptopCatalog(), time.Second)
	req := newCartRequest(http.MethodDelete, "/api/v1/cart/", nil)
	w := httptest.NewRecorder()
	h.ClearCart(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var state domain.CartState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.TotalItems)
}
