package middleware

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

type contextKey string

const (
	ctxActor   contextKey = "actor"
	ctxSubject contextKey = "subject"
)

// ActorFromContext returns the authenticated user, or nil on public routes.
func ActorFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxActor).(*models.User); ok {
		return v
	}
	return nil
}

// SubjectFromContext returns the identity subject of the session.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSubject).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated user into the context.
func WithActor(ctx context.Context, actor *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithSubject injects the identity subject into the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSubject, subject)
}
