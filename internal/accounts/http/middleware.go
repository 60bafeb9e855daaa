package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/slogx"
)

// The access control guard is an ordered chain of short-circuiting
// stages: Authenticate resolves the bearer token to a user, ActiveUser
// rejects disabled accounts, Superuser gates the admin surface. Compose
// them with httpx.Chain; each stage assumes the previous one ran.

// Authenticate verifies the bearer token (signature, issuer, expiry,
// access type), resolves its subject to a user, and injects both the id
// and the full record into the request context.
func Authenticate(tokens *service.TokenService, users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authz, "Bearer ")
			if !ok || token == "" {
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}

			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				log.Debug("access token rejected", "err", err)
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}
			if claims.Subject == "" {
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}

			user, err := users.GetUserByID(ctx, claims.Subject)
			if err != nil {
				log.Debug("token subject does not resolve", "user_id", claims.Subject)
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}

			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
			ctx = context.WithValue(ctx, httpx.CtxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActiveUser rejects requests from deactivated accounts. Must run after
// Authenticate.
func ActiveUser() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}
			if !user.IsActive {
				accountsdk.ErrInactiveAccount.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Superuser rejects callers without the superuser flag. Must run after
// ActiveUser.
func Superuser() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				accountsdk.ErrInvalidToken.WriteError(w)
				return
			}
			if !user.IsSuperuser {
				accountsdk.ErrForbidden.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(httpx.CtxKeyUser).(domain.User)
	return user, ok
}
