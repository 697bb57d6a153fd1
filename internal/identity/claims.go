package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified assertions about a subject returned by the provider.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

const (
	tokenKindBearer  = "bearer"
	tokenKindSession = "session"
)

// tokenClaims is the wire shape of both bearer tokens and session cookies.
// Kind prevents a bearer token from being replayed as a session cookie.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}
