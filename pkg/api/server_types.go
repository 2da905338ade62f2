package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/auth"
	"github.com/dd0wney/cluso-textnet/pkg/config"
	"github.com/dd0wney/cluso-textnet/pkg/export"
	"github.com/dd0wney/cluso-textnet/pkg/health"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// Server represents the HTTP API server
type Server struct {
	cfg     config.ServerConfig
	logger  logging.Logger
	metrics *metrics.Registry
	sink    export.Sink
	tokens  *auth.TokenManager
	health  *health.Checker
	version string

	mu             sync.RWMutex
	base           network.Config
	graphqlHandler http.Handler

	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and pipeline logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics records HTTP and pipeline metrics and serves them on /metrics.
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Server) { s.metrics = registry }
}

// WithSink enables "export": true on analysis requests.
func WithSink(sink export.Sink) Option {
	return func(s *Server) { s.sink = sink }
}

// WithTokenManager requires bearer tokens, overriding the JWT secret in the config.
func WithTokenManager(m *auth.TokenManager) Option {
	return func(s *Server) { s.tokens = m }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}
