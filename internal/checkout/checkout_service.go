package checkout

import (
	"context"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// Collaborator interfaces are defined here, by the consumer, not by the
// implementations.

// Identity resolves the active session's user. A nil user with a nil error
// means no one is signed in.
type Identity interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// OrderRepository durably persists orders. CreateOrder assigns the id and
// returns the stored record.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// OrderEvents publishes a notification after an order is accepted.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}

// Cart is the slice of the cart store the orchestrator needs.
type Cart interface {
	Snapshot() domain.CartState
	Clear() domain.CartState
}

type Service struct {
	identity Identity
	repo     OrderRepository
	events   OrderEvents // optional
	now      func() time.Time
}

type Option func(*Service)

// WithOrderEvents enables a best-effort order-placed event after a
// successful checkout. Publish failures are logged, never surfaced.
func WithOrderEvents(events OrderEvents) Option {
	return func(s *Service) { s.events = events }
}

// WithClock overrides the order timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(identity Identity, repo OrderRepository, opts ...Option) *Service {
	s := &Service{
		identity: identity,
		repo:     repo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder converts a non-empty cart belonging to an authenticated user
// into a persisted order, then resets the cart. The cart is cleared if and
// only if the repository accepted the write; on any failure it is left
// untouched so the caller can retry.
func (s *Service) PlaceOrder(ctx context.Context, cart Cart) (*domain.Order, error) {
	// Auth gate runs first so a failed checkout never writes an orphaned
	// order. An identity lookup error means there is no usable session.
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		log.Printf("identity lookup failed: %v", err)
		return nil, ErrNotAuthenticated
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	snapshot := cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := transcribe(user.ID, snapshot, s.now())

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, &PersistenceError{Message: err.Error()}
	}

	cart.Clear()

	if s.events != nil {
		if err := s.events.OrderPlaced(ctx, created); err != nil {
			log.Printf("failed to publish order-placed event for order %s: %v", created.ID, err)
		}
	}

	return created, nil
}

// transcribe maps a cart snapshot into an order record. Line items without
// a resolved product id are dropped rather than failing the checkout.
func transcribe(userID string, snapshot domain.CartState, createdAt time.Time) *domain.Order {
	products := make([]domain.OrderProduct, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if item.ProductID == "" {
			continue
		}
		products = append(products, domain.OrderProduct{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &domain.Order{
		UserID:     userID,
		Products:   products,
		TotalPrice: snapshot.TotalPrice,
		CreatedAt:  createdAt,
	}
}
