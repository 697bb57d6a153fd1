package controllers

import (
	"net/http"
	"time"

	"github.com/gearboxapp/gearbox-backend/api/middleware"
	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/api/validators"
	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,max=30"`
}

// Signup creates the local account for the bearer-token identity and starts
// a session in the same round trip.
func Signup(svc users.Service, provider identity.Provider, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Signup(r.Context(), bearer, body.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		value, expires, err := provider.IssueSessionCookie(r.Context(), bearer, cfg.CookieTTL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cfg, value, expires)

		responses.WriteMessage(w, http.StatusCreated, "account created", map[string]any{
			"user": users.ToAccountDTO(user),
		})
	}
}

// SessionLogin exchanges a bearer token for the session cookie.
func SessionLogin(provider identity.Provider, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		value, expires, err := provider.IssueSessionCookie(r.Context(), bearer, cfg.CookieTTL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cfg, value, expires)

		responses.WriteMessage(w, http.StatusOK, "session established", nil)
	}
}

// Logout revokes every session for the subject and clears the cookie.
func Logout(svc users.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := middleware.SubjectFromContext(r.Context())
		if subject == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Logout(r.Context(), subject); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearSessionCookie(w, cfg)

		responses.WriteMessage(w, http.StatusOK, "logged out", nil)
	}
}

type usernameCheckRequest struct {
	Username string `json:"username" validate:"required,max=30"`
}

// CheckUsername reports whether a username is free to claim. Taken names
// answer with a conflict so signup forms can react before submitting.
func CheckUsername(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body usernameCheckRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CheckUsername(r.Context(), body.Username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "username is available", nil)
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
