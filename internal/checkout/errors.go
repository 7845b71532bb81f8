package checkout

import "errors"

var (
	ErrNotAuthenticated = errors.New("no authenticated user, sign in before checkout")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
)

// PersistenceError reports that the order repository rejected the write.
// The cart is left untouched and the whole checkout is safe to retry.
type PersistenceError struct {
	Message string
}

func (e *PersistenceError) Error() string {
	return "failed to persist order: " + e.Message
}
