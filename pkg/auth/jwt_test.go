package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-must-be-at-least-32-characters-long"

func newTestManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, ttl)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	return m
}

func TestNewTokenManager_Rejects(t *testing.T) {
	if _, err := NewTokenManager("short", time.Minute); !errors.Is(err, ErrShortSecret) {
		t.Errorf("Expected ErrShortSecret, got %v", err)
	}
	if _, err := NewTokenManager(testSecret, 0); !errors.Is(err, ErrNonPositiveTTL) {
		t.Errorf("Expected ErrNonPositiveTTL, got %v", err)
	}
}

func TestTokenManager_Issue(t *testing.T) {
	m := newTestManager(t, 15*time.Minute)

	tests := []struct {
		name      string
		subject   string
		scopes    []string
		wantError error
	}{
		{"Default scope", "survey-team", nil, nil},
		{"Explicit scopes", "ops", []string{ScopeAnalyze, ScopeMetrics}, nil},
		{"Empty subject", "", nil, ErrEmptySubject},
		{"Unknown scope", "ops", []string{"admin"}, ErrInvalidScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.Issue(tt.subject, tt.scopes...)

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("Expected %v, got %v", tt.wantError, err)
				}
				if token != "" {
					t.Errorf("Expected empty token on error, got %s", token)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			// header.payload.signature
			if strings.Count(token, ".") != 2 {
				t.Errorf("Token is not a compact JWT: %s", token)
			}
		})
	}
}

func TestTokenManager_Validate(t *testing.T) {
	m := newTestManager(t, 15*time.Minute)

	valid, err := m.Issue("survey-team", ScopeAnalyze, ScopeMetrics)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	claims, err := m.Validate(context.Background(), valid)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "survey-team" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if !claims.HasScope(ScopeMetrics) || !claims.HasScope(ScopeAnalyze) {
		t.Errorf("Scopes = %v", claims.Scopes)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("Expected exp and iat to be set")
	}

	other, err := NewTokenManager(strings.Repeat("x", 40), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.Issue("intruder")

	for name, token := range map[string]string{
		"Empty":           "",
		"Malformed":       "not.a.valid.jwt",
		"Wrong secret":    foreign,
		"Signature strip": valid[:strings.LastIndex(valid, ".")+1],
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := m.Validate(context.Background(), token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
			if claims != nil {
				t.Error("Expected nil claims on error")
			}
		})
	}
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager(t, time.Minute)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue("survey-team")
	if err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.Validate(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Minute)

	claims := &Claims{
		Scopes: []string{ScopeAnalyze},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "attacker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Validate(context.Background(), unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestTokenManager_Authorize(t *testing.T) {
	m := newTestManager(t, time.Minute)
	token, _ := m.Issue("dashboards", ScopeMetrics)

	if _, err := m.Authorize(context.Background(), token, ScopeMetrics); err != nil {
		t.Errorf("Authorize(metrics) failed: %v", err)
	}
	if _, err := m.Authorize(context.Background(), token, ScopeAnalyze); !errors.Is(err, ErrMissingScope) {
		t.Errorf("Expected ErrMissingScope, got %v", err)
	}
}
