package users

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailInUse   = errors.New("email already registered")
)

// Credentials pairs a user with their stored password hash. The hash never
// leaves this package's consumers except for verification.
type Credentials struct {
	User         domain.User
	PasswordHash []byte
}

type Repository interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash []byte) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*Credentials, error)
	UpdateProfile(ctx context.Context, id, name, address string) error
	DeleteUser(ctx context.Context, id string) error
}
