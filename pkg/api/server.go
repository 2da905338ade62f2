package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/api/middleware"
	"github.com/dd0wney/cluso-textnet/pkg/auth"
	"github.com/dd0wney/cluso-textnet/pkg/config"
	"github.com/dd0wney/cluso-textnet/pkg/graphql"
	"github.com/dd0wney/cluso-textnet/pkg/health"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

const (
	selfTestTimeout = 5 * time.Second
	defaultTokenTTL = 24 * time.Hour
)

// NewServer creates the API server. base holds the pipeline settings
// requests start from. A JWT secret in cfg turns on bearer auth.
func NewServer(cfg config.ServerConfig, base network.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger).With(logging.Component("api"))

	if s.tokens == nil && cfg.JWTSecret != "" {
		ttl := validation.DefaultOrDuration(cfg.TokenTTL, defaultTokenTTL)
		tm, err := auth.NewTokenManager(cfg.JWTSecret, ttl)
		if err != nil {
			return nil, fmt.Errorf("token manager: %w", err)
		}
		s.tokens = tm
	}

	if err := s.SetPipelineConfig(base); err != nil {
		return nil, err
	}

	s.health = health.NewChecker(s.version)
	s.health.RegisterLivenessCheck("memory", health.MemoryCheck(0))
	s.health.RegisterLivenessCheck("pipeline", health.PipelineCheck(s.selfTest))
	if pinger, ok := s.sink.(interface{ Ping(context.Context) error }); ok {
		s.health.RegisterReadinessCheck("export", health.PingCheck(pinger.Ping))
	}
	return s, nil
}

// SetPipelineConfig validates cfg and makes it the base for new requests.
// The GraphQL schema is rebuilt over it.
func (s *Server) SetPipelineConfig(cfg network.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	resolver := graphql.NewResolver(cfg, s.pipelineOptions()...)
	schema, err := graphql.GenerateSchema(resolver)
	if err != nil {
		return fmt.Errorf("graphql schema: %w", err)
	}

	s.mu.Lock()
	s.base = cfg
	s.graphqlHandler = graphql.NewGraphQLHandler(schema, s.cfg.MaxBodyBytes)
	s.mu.Unlock()

	s.logger.Info("pipeline config applied",
		logging.Method(cfg.LayoutMethod),
		logging.Int("top_edges", cfg.TopEdges))
	return nil
}

// PipelineConfig returns the current base pipeline settings.
func (s *Server) PipelineConfig() network.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

func (s *Server) pipelineOptions() []network.Option {
	return []network.Option{
		network.WithLogger(s.logger),
		network.WithMetrics(s.metrics),
	}
}

// Handler builds the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/analyze", s.requireScope(auth.ScopeAnalyze, http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /api/v1/analyze/categories", s.requireScope(auth.ScopeAnalyze, http.HandlerFunc(s.handleCategories)))
	mux.Handle("GET /api/v1/config", s.requireScope(auth.ScopeAnalyze, http.HandlerFunc(s.handleConfig)))
	mux.Handle("/graphql", s.requireScope(auth.ScopeAnalyze, http.HandlerFunc(s.handleGraphQL)))

	mux.Handle("GET /health", s.health.LivenessHandler())
	mux.Handle("GET /ready", s.health.ReadinessHandler())

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.PanicRecovery(s.logger),
		middleware.Logging(s.logger),
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.requireScope(auth.ScopeMetrics, s.metrics.Handler()))
		chain = append(chain, middleware.Metrics(s.metrics))
	}
	chain = append(chain,
		middleware.SecurityHeaders(),
		middleware.BodySizeLimit(s.cfg.MaxBodyBytes),
	)

	return middleware.Chain(mux, chain...)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h := s.graphqlHandler
	s.mu.RUnlock()

	ctx, cancel := s.requestContext(r)
	defer cancel()
	h.ServeHTTP(w, r.WithContext(ctx))
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

// selfTest runs a two-document analysis with the current settings.
func (s *Server) selfTest(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, selfTestTimeout)
	defer cancel()

	p, err := network.New(s.PipelineConfig(), network.WithLogger(logging.NewNopLogger()))
	if err != nil {
		return nil, err
	}
	result, err := p.Run(ctx, [][]string{{"health", "check", "probe"}, {"health", "probe"}})
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"status":           string(result.Status),
		"layout_method":    result.LayoutMethod,
		"detection_method": result.DetectionMethod,
		"uptime_seconds":   time.Since(s.startTime).Seconds(),
	}
	if result.Status != network.StatusOK {
		return details, fmt.Errorf("self-test produced %s", result.Status)
	}
	return details, nil
}
