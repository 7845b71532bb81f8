package checkout

import (
	"context"

	"github.com/fjod/go_storefront/internal/domain"
)

// MockIdentity implements Identity for testing
type MockIdentity struct {
	User *domain.User
	Err  error
}

func (m *MockIdentity) CurrentUser(context.Context) (*domain.User, error) {
	return m.User, m.Err
}

// MockOrderRepository implements OrderRepository for testing
type MockOrderRepository struct {
	Err          error
	CreatedOrder *domain.Order // captures the order passed to CreateOrder
	CallCount    int
	AssignID     string
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	m.CreatedOrder = order
	created := *order
	created.ID = m.AssignID
	return &created, nil
}

// MockOrderEvents implements OrderEvents for testing
type MockOrderEvents struct {
	Err       error
	Published []*domain.Order
}

func (m *MockOrderEvents) OrderPlaced(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}
