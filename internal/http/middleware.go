package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/fjod/go_storefront/internal/identity"
	"github.com/google/uuid"
)

type cartSessionContextKey struct{}

const cartSessionHeader = "X-Cart-Session"

// SessionMiddleware lifts the bearer token from the Authorization header
// into the context so the identity service can resolve the current user.
// Requests without a token pass through; the auth gate lives in the
// handlers that need it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			r = r.WithContext(identity.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// CartSessionMiddleware assigns each browser session a cart id. A missing
// header gets a fresh id, echoed back so the client can carry it on.
func CartSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(cartSessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		w.Header().Set(cartSessionHeader, sessionID)
		ctx := context.WithValue(r.Context(), cartSessionContextKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cartSessionFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(cartSessionContextKey{}).(string); ok {
		return sessionID
	}
	return ""
}
