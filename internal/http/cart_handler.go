package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *cart.Registry
	catalog Catalog
	timeout time.Duration
}

func NewCartHandler(carts *cart.Registry, catalogSvc Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogSvc,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) store(r *http.Request) (*cart.Store, bool) {
	sessionID := cartSessionFromContext(r.Context())
	if sessionID == "" {
		return nil, false
	}
	return h.carts.Get(sessionID), true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_cart_session", "no cart session")
		return
	}

	state := store.Snapshot()
	h.refreshDisplayFields(ctx, &state)
	respondJSON(w, http.StatusOK, state)
}

// refreshDisplayFields re-reads title and image from the catalog so the
// cart page shows current product presentation. Price and quantity stay as
// recorded in the cart.
func (h *CartHandler) refreshDisplayFields(ctx context.Context, state *domain.CartState) {
	for i := range state.Items {
		product, err := h.catalog.GetProduct(ctx, state.Items[i].ProductID)
		if err != nil {
			if !errors.Is(err, catalog.ErrProductNotFound) {
				log.Printf("catalog lookup failed for %s: %v", state.Items[i].ProductID, err)
			}
			continue
		}
		state.Items[i].Title = product.Title
		state.Items[i].Image = product.Image
	}
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_cart_session", "no cart session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1 // default, matches the shop's add-to-cart button
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to look up product")
		return
	}

	state, err := store.AddItem(*product, quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be greater than 0")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, state)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_cart_session", "no cart session")
		return
	}

	productID := chi.URLParam(r, "product_id")
	state := store.RemoveItem(productID)

	respondJSON(w, http.StatusOK, state)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_cart_session", "no cart session")
		return
	}

	state := store.Clear()

	respondJSON(w, http.StatusOK, state)
}
