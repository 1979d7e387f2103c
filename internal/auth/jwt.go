package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront-bff/internal/config"
)

// Manager verifies session tokens minted by the upstream auth service.
// The BFF shares the HS256 secret with upstream; it never decides who a
// user is on its own.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("SESSION_JWT_SECRET is required")
	}
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
	}, nil
}

func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	validator := jwt.NewValidator(opts...)
	if err := validator.Validate(claims.RegisteredClaims); err != nil {
		return Claims{}, err
	}

	if claims.Email == "" {
		return Claims{}, errors.New("email missing in session token")
	}
	if claims.SessionID() == "" {
		return Claims{}, errors.New("session id missing in token (jti or sub required)")
	}

	return claims, nil
}

// Issue mints a session token with the manager's secret. Production tokens
// come from the upstream auth service; this exists for tests and for local
// development against a stubbed upstream.
func (m *Manager) Issue(now time.Time, ttl time.Duration, claims Claims) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
	claims.Issuer = m.issuer
	claims.Audience = audienceOrNil(m.audience)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
