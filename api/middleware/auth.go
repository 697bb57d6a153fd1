package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
)

// ActorResolver turns a session subject into the local user row. The users
// service implements it.
type ActorResolver interface {
	ResolveBySubject(ctx context.Context, subject string) (*models.User, error)
}

// SessionAuth validates the session cookie and seeds the request context with
// the subject and the resolved user. A valid cookie whose subject has no user
// row yet is still a 404, so clients can distinguish "finish signup" from
// "log in again".
func SessionAuth(cfg config.SessionConfig, provider identity.Provider, resolver ActorResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := provider.VerifySessionCookie(r.Context(), cookie.Value)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			actor, err := resolver.ResolveBySubject(r.Context(), claims.Subject)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSubject(r.Context(), claims.Subject)
			ctx = WithActor(ctx, actor)
			if logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatInt(actor.ID, 10))
				ctx = logg.WithSubject(ctx, claims.Subject)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates the admin surface. It must run after SessionAuth.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if actor == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !actor.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
