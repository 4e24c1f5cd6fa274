// Package middleware provides HTTP middlewares for authentication,
// authorization and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// TokenParser verifies a bearer token and returns the identity it carries.
type TokenParser interface {
	Parse(token string) (*models.Identity, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer"
// header with 401. On success the caller's identity is stored in the
// request context, see IdentityFromContext.
func BearerAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			id, err := parser.Parse(raw)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ErrAccountGone is returned by an AccountResolver when the account behind
// a valid token no longer exists.
var ErrAccountGone = errors.New("account no longer exists")

// AccountResolver looks up the current state of the account a token was
// issued for.
type AccountResolver interface {
	Resolve(ctx context.Context, id models.Identity) (*models.Identity, error)
}

// AccountResolverFunc adapts a function to AccountResolver.
type AccountResolverFunc func(ctx context.Context, id models.Identity) (*models.Identity, error)

// Resolve calls f.
func (f AccountResolverFunc) Resolve(ctx context.Context, id models.Identity) (*models.Identity, error) {
	return f(ctx, id)
}

// RequireAccess answers 403 unless the authenticated caller may use res.
// It must run after BearerAuth.
//
// With a non-nil accounts the decision uses the account's current role
// rather than the one in the token: a deleted account gets 401 and a
// demoted one 403. The resolved identity replaces the token's in the
// request context.
func RequireAccess(res authz.Resource, accounts AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id != nil && accounts != nil {
				cur, err := accounts.Resolve(r.Context(), *id)
				switch {
				case errors.Is(err, ErrAccountGone):
					writeDetail(w, http.StatusUnauthorized, "Account no longer active")
					return
				case err != nil:
					writeDetail(w, http.StatusInternalServerError, "internal error")
					return
				}
				id = cur
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			if !authz.CanAccess(id, res) {
				writeDetail(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the identity stored by BearerAuth, or nil.
func IdentityFromContext(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(identityKey).(*models.Identity)
	return id
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Detail: detail})
}
