package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type tokenContextKey struct{}

// WithToken carries the request's bearer token so CurrentUser can resolve
// the active session without the caller threading the token explicitly.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey{}).(string); ok {
		return token
	}
	return ""
}

// Service implements registration, login sessions and current-user lookup
// on top of the users repository and a session store.
type Service struct {
	users    users.Repository
	sessions SessionStore

	mu      sync.Mutex
	subs    map[int]func(*domain.User)
	nextSub int
}

func NewService(usersRepo users.Repository, sessions SessionStore) *Service {
	return &Service{
		users:    usersRepo,
		sessions: sessions,
		subs:     make(map[int]func(*domain.User)),
	}
}

func (s *Service) Register(ctx context.Context, email, password, name, address string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &domain.User{
		Email:   email,
		Name:    name,
		Address: address,
	}, hash)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the password and opens a session, returning the token the
// client presents on subsequent requests.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	creds, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, creds.User.ID); err != nil {
		return "", nil, fmt.Errorf("failed to open session: %w", err)
	}

	user := creds.User
	s.notify(&user)
	return token, &user, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// CurrentUser resolves the session token carried in ctx. No token or an
// expired session yields (nil, nil), matching the checkout.Identity
// contract.
func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	token := tokenFromContext(ctx)
	if token == "" {
		return nil, nil
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			// session outlived the account
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// OnChange registers a callback invoked whenever the authenticated identity
// changes (login passes the user, logout passes nil). The returned function
// unsubscribes it.
func (s *Service) OnChange(fn func(*domain.User)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(user *domain.User) {
	s.mu.Lock()
	subs := make([]func(*domain.User), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}
