package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

// OrderReader is the read side of the order repository used for history
// display.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders   OrderReader
	identity IdentityService
	timeout  time.Duration
}

func NewOrdersHandler(orderReader OrderReader, identitySvc IdentityService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:   orderReader,
		identity: identitySvc,
		timeout:  timeout,
	}
}

func (h *OrdersHandler) currentUser(ctx context.Context, w http.ResponseWriter) *domain.User {
	user, err := h.identity.CurrentUser(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve session")
		return nil
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to view orders")
		return nil
	}
	return user
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.currentUser(ctx, w)
	if user == nil {
		return
	}

	result, err := h.orders.ListOrdersByUserID(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if result == nil {
		result = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.currentUser(ctx, w)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get order")
		return
	}
	// another user's order reads as absent, not forbidden
	if order.UserID != user.ID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
