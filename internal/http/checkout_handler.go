package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
)

// CheckoutService is the slice of the checkout orchestrator the handler
// uses.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, c checkout.Cart) (*domain.Order, error)
}

type CheckoutHandler struct {
	carts    *cart.Registry
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(carts *cart.Registry, checkoutSvc CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkoutSvc,
		timeout:  timeout,
	}
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := cartSessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_cart_session", "no cart session")
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, h.carts.Get(sessionID))
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to place an order")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	default:
		var perr *checkout.PersistenceError
		if errors.As(err, &perr) {
			respondError(w, http.StatusBadGateway, "persistence_failure", perr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	}
}
