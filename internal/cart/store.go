package cart

import (
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// Store holds the cart for a single browser session. All mutation goes
// through AddItem, RemoveItem and Clear; totals are recomputed from the
// items on every mutation so they can never drift.
type Store struct {
	mu        sync.Mutex
	items     []domain.CartItem
	observers map[int]func(domain.CartState)
	nextObs   int
}

func NewStore() *Store {
	return &Store{
		observers: make(map[int]func(domain.CartState)),
	}
}

// AddItem puts quantity units of the product into the cart. A line item
// already present for the same product id has its quantity incremented
// rather than being duplicated.
func (s *Store) AddItem(product domain.Product, quantity int) (domain.CartState, error) {
	if quantity <= 0 {
		return s.Snapshot(), ErrInvalidQuantity
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, domain.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Category:  product.Category,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		})
	}
	state, observers := s.stateLocked()
	s.mu.Unlock()

	notify(observers, state)
	return state, nil
}

// RemoveItem drops the line item with the given product id. Removing an
// absent id is a no-op, so the operation is idempotent.
func (s *Store) RemoveItem(productID string) domain.CartState {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	state, observers := s.stateLocked()
	s.mu.Unlock()

	if changed {
		notify(observers, state)
	}
	return state
}

// Clear resets the cart to empty.
func (s *Store) Clear() domain.CartState {
	s.mu.Lock()
	s.items = nil
	state, observers := s.stateLocked()
	s.mu.Unlock()

	notify(observers, state)
	return state
}

// Snapshot returns a copy of the current state that is safe for the caller
// to retain; later mutations are not reflected in it.
func (s *Store) Snapshot() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, _ := s.stateLocked()
	return state
}

// Subscribe registers an observer invoked synchronously with the new
// snapshot after every mutation. The returned function unsubscribes it.
func (s *Store) Subscribe(fn func(domain.CartState)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// stateLocked builds a snapshot and collects the observer list. Caller
// must hold s.mu.
func (s *Store) stateLocked() (domain.CartState, []func(domain.CartState)) {
	state := domain.CartState{
		Items: make([]domain.CartItem, len(s.items)),
	}
	copy(state.Items, s.items)
	for _, item := range s.items {
		state.TotalItems += item.Quantity
		state.TotalPrice += item.Price * float64(item.Quantity)
	}

	observers := make([]func(domain.CartState), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return state, observers
}

// notify runs outside the store lock so an observer may call back into
// the store without deadlocking.
func notify(observers []func(domain.CartState), state domain.CartState) {
	for _, fn := range observers {
		fn(state)
	}
}
