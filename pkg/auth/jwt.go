package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaims  = errors.New("invalid token claims")
	ErrEmptySubject   = errors.New("subject cannot be empty")
	ErrInvalidScope   = errors.New("invalid scope")
	ErrMissingScope   = errors.New("token lacks required scope")
	ErrShortSecret    = errors.New("secret must be at least 32 characters")
	ErrNonPositiveTTL = errors.New("token lifetime must be positive")
)

// Scopes granted to API callers
const (
	ScopeAnalyze = "analyze"
	ScopeMetrics = "metrics"
)

var validScopes = map[string]bool{
	ScopeAnalyze: true,
	ScopeMetrics: true,
}

// Issuer is written into every token and required on validation.
const Issuer = "textnet"

// Claims identifies an API caller and what it may do.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenManager creates a token manager.
// Returns an error if the secret is shorter than 32 characters.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}

	return &TokenManager{
		secretKey: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Issue signs a token for subject. With no scopes the token grants ScopeAnalyze.
func (m *TokenManager) Issue(subject string, scopes ...string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeAnalyze}
	}
	for _, s := range scopes {
		if !validScopes[s] {
			return "", fmt.Errorf("%w: %s", ErrInvalidScope, s)
		}
	}

	now := m.now()
	claims := &Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns its claims.
func (m *TokenManager) Validate(_ context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	return claims, nil
}

// Authorize validates tokenString and checks that it grants scope.
func (m *TokenManager) Authorize(ctx context.Context, tokenString, scope string) (*Claims, error) {
	claims, err := m.Validate(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.HasScope(scope) {
		return nil, fmt.Errorf("%w: %s", ErrMissingScope, scope)
	}
	return claims, nil
}

// TTL returns the configured token lifetime
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
