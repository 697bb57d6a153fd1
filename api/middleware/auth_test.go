package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
)

type fakeProvider struct {
	claims *identity.Claims
	err    error
}

func (f *fakeProvider) VerifyToken(context.Context, string) (*identity.Claims, error) {
	return f.claims, f.err
}

func (f *fakeProvider) IssueSessionCookie(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, f.err
}

func (f *fakeProvider) VerifySessionCookie(context.Context, string) (*identity.Claims, error) {
	return f.claims, f.err
}

func (f *fakeProvider) RevokeSessions(context.Context, string) error { return f.err }

func (f *fakeProvider) SetDisabled(context.Context, string, bool) error { return f.err }

func (f *fakeProvider) DeleteSubject(context.Context, string) error { return f.err }

type fakeResolver struct {
	user *models.User
	err  error
}

func (f *fakeResolver) ResolveBySubject(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

var sessionCfg = config.SessionConfig{CookieName: "session"}

func authedRequest(t *testing.T, provider identity.Provider, resolver ActorResolver, withCookie bool) *httptest.ResponseRecorder {
	t.Helper()

	var captured *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := SessionAuth(sessionCfg, provider, resolver, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: "session", Value: "cookie-value"})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK && captured == nil {
		t.Fatal("handler ran without an actor in context")
	}
	return rec
}

func TestSessionAuthRequiresCookie(t *testing.T) {
	rec := authedRequest(t, &fakeProvider{}, &fakeResolver{}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthRejectsBadCookie(t *testing.T) {
	provider := &fakeProvider{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")}
	rec := authedRequest(t, provider, &fakeResolver{}, true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthMissingProfileIs404(t *testing.T) {
	provider := &fakeProvider{claims: &identity.Claims{Subject: "sub-1"}}
	resolver := &fakeResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	rec := authedRequest(t, provider, resolver, true)

	// a valid session whose subject never finished signup is told to finish
	// signup, not to log in again
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Detail != "user not found" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestSessionAuthSeedsActor(t *testing.T) {
	provider := &fakeProvider{claims: &identity.Claims{Subject: "sub-1"}}
	resolver := &fakeResolver{user: &models.User{ID: 42, Subject: "sub-1", Username: "alice"}}
	rec := authedRequest(t, provider, resolver, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(nil)(next)

	// no actor at all
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// ordinary user
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithActor(req.Context(), &models.User{ID: 1}))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	// admin passes
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithActor(req.Context(), &models.User{ID: 1, IsAdmin: true}))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
