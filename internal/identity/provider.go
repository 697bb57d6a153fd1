package identity

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Provider abstracts the external identity system the API trusts for
// authentication. The default implementation is self-hosted HS256 JWTs with
// Redis-backed revocation, but nothing outside this package depends on that.
type Provider interface {
	// VerifyToken validates a bearer token presented by a client.
	VerifyToken(ctx context.Context, token string) (*Claims, error)
	// IssueSessionCookie exchanges a valid bearer token for a session cookie
	// value. A non-positive ttl falls back to the configured cookie TTL.
	IssueSessionCookie(ctx context.Context, bearer string, ttl time.Duration) (string, time.Time, error)
	// VerifySessionCookie validates a session cookie value.
	VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error)
	// RevokeSessions invalidates every session issued to the subject before
	// now. Idempotent.
	RevokeSessions(ctx context.Context, subject string) error
	// SetDisabled blocks (or unblocks) all authentication for the subject.
	SetDisabled(ctx context.Context, subject string, disabled bool) error
	// DeleteSubject revokes the subject's sessions and forgets its state.
	DeleteSubject(ctx context.Context, subject string) error
}

// sessionStore is the slice of the redis client the provider needs.
type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	RevocationEpochKey(subject string) string
	DisabledKey(subject string) string
}

// JWTProvider implements Provider with HS256 tokens signed by key material
// loaded from disk.
type JWTProvider struct {
	key    []byte
	issuer string
	cfg    config.SessionConfig
	store  sessionStore
	now    func() time.Time
}

// NewProvider loads signing key material from cfg.KeyFile. A missing or empty
// key file is a startup error.
func NewProvider(cfg config.SessionConfig, store sessionStore) (*JWTProvider, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("session issuer is required")
	}
	raw, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading session key file %q: %w", cfg.KeyFile, err)
	}
	key := []byte(strings.TrimSpace(string(raw)))
	if len(key) == 0 {
		return nil, fmt.Errorf("session key file %q is empty", cfg.KeyFile)
	}
	return &JWTProvider{
		key:    key,
		issuer: cfg.Issuer,
		cfg:    cfg,
		store:  store,
		now:    time.Now,
	}, nil
}

// IssueToken mints a bearer token for the subject. This is the entry point
// for login flows and test fixtures; it is intentionally not part of the
// Provider interface, which only models verification.
func (p *JWTProvider) IssueToken(subject, email string) (string, error) {
	return p.mint(subject, email, tokenKindBearer, p.cfg.BearerTokenTTL)
}

func (p *JWTProvider) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	return p.verify(ctx, token, tokenKindBearer)
}

func (p *JWTProvider) IssueSessionCookie(ctx context.Context, bearer string, ttl time.Duration) (string, time.Time, error) {
	claims, err := p.VerifyToken(ctx, bearer)
	if err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = p.cfg.CookieTTL
	}
	signed, err := p.mint(claims.Subject, claims.Email, tokenKindSession, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, p.now().Add(ttl), nil
}

func (p *JWTProvider) VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error) {
	return p.verify(ctx, cookie, tokenKindSession)
}

// RevokeSessions stores a revocation epoch; any token issued strictly before
// it fails verification. The key expires with the cookie TTL since older
// cookies are past their own expiry by then anyway.
func (p *JWTProvider) RevokeSessions(ctx context.Context, subject string) error {
	if subject == "" {
		return errors.New(errors.CodeValidation, "subject is required")
	}
	key := p.store.RevocationEpochKey(subject)
	if err := p.store.Set(ctx, key, strconv.FormatInt(p.now().Unix(), 10), p.cfg.CookieTTL); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "storing revocation epoch")
	}
	return nil
}

func (p *JWTProvider) SetDisabled(ctx context.Context, subject string, disabled bool) error {
	if subject == "" {
		return errors.New(errors.CodeValidation, "subject is required")
	}
	key := p.store.DisabledKey(subject)
	if disabled {
		if err := p.store.Set(ctx, key, "1", 0); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "storing disabled flag")
		}
		return nil
	}
	if err := p.store.Del(ctx, key); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing disabled flag")
	}
	return nil
}

func (p *JWTProvider) DeleteSubject(ctx context.Context, subject string) error {
	if err := p.RevokeSessions(ctx, subject); err != nil {
		return err
	}
	if err := p.store.Del(ctx, p.store.DisabledKey(subject)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "forgetting subject state")
	}
	return nil
}

func (p *JWTProvider) mint(subject, email, kind string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New(errors.CodeValidation, "subject is required")
	}
	if ttl <= 0 {
		return "", errors.New(errors.CodeValidation, "token ttl must be positive")
	}
	now := p.now()
	claims := tokenClaims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString(p.key)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "signing token")
	}
	return signed, nil
}

func (p *JWTProvider) verify(ctx context.Context, token, wantKind string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New(errors.CodeUnauthorized, "credential is required")
	}

	parsed := &tokenClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		parsed,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return p.key, nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(p.issuer),
	)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "invalid credential")
	}
	if parsed.Kind != wantKind {
		return nil, errors.New(errors.CodeUnauthorized, "invalid credential")
	}
	if parsed.Subject == "" || parsed.IssuedAt == nil || parsed.ExpiresAt == nil {
		return nil, errors.New(errors.CodeUnauthorized, "invalid credential")
	}

	if err := p.checkSubjectState(ctx, parsed.Subject, parsed.IssuedAt.Time); err != nil {
		return nil, err
	}

	return &Claims{
		Subject:   parsed.Subject,
		Email:     parsed.Email,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

func (p *JWTProvider) checkSubjectState(ctx context.Context, subject string, issuedAt time.Time) error {
	epochVal, err := p.store.Get(ctx, p.store.RevocationEpochKey(subject))
	switch {
	case err == nil:
		epoch, parseErr := strconv.ParseInt(epochVal, 10, 64)
		if parseErr != nil {
			return errors.Wrap(errors.CodeInternal, parseErr, "corrupt revocation epoch")
		}
		if issuedAt.Unix() < epoch {
			return errors.New(errors.CodeUnauthorized, "session revoked")
		}
	case stdErrors.Is(err, redis.Nil):
		// no revocation on record
	default:
		return errors.Wrap(errors.CodeDependency, err, "reading revocation epoch")
	}

	disabled, err := p.store.Get(ctx, p.store.DisabledKey(subject))
	switch {
	case err == nil:
		if disabled == "1" {
			return errors.New(errors.CodeUnauthorized, "account disabled")
		}
	case stdErrors.Is(err, redis.Nil):
		// not disabled
	default:
		return errors.Wrap(errors.CodeDependency, err, "reading disabled flag")
	}
	return nil
}
