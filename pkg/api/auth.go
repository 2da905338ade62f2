package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dd0wney/cluso-textnet/pkg/api/middleware"
	"github.com/dd0wney/cluso-textnet/pkg/auth"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the caller's claims when bearer auth is on.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// requireScope checks the bearer token for scope. Without a token manager
// every request passes.
func (s *Server) requireScope(scope string, next http.Handler) http.Handler {
	if s.tokens == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="textnet"`)
			s.respondError(w, http.StatusUnauthorized, "Bearer token required")
			return
		}

		claims, err := s.tokens.Authorize(r.Context(), token, scope)
		if err != nil {
			s.logger.Warn("request rejected",
				logging.String("path", r.URL.Path),
				logging.String("request_id", middleware.GetRequestID(r)),
				logging.Error(err))
			if errors.Is(err, auth.ErrMissingScope) {
				s.respondError(w, http.StatusForbidden, "Token lacks scope "+scope)
				return
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="textnet", error="invalid_token"`)
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
