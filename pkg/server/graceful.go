package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// ConfigReloadFunc is a function that reloads configuration
type ConfigReloadFunc func() error

// Options tune the wrapped http.Server. Zero durations take the defaults.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 90 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// GracefulServer wraps an HTTP server with graceful shutdown capabilities.
// SIGINT and SIGTERM drain connections; SIGHUP triggers a config reload.
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error

	ready     chan struct{}
	readyOnce sync.Once
	addrMu    sync.RWMutex
	addr      string

	configReloadFn ConfigReloadFunc
	configMu       sync.RWMutex
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(addr string, handler http.Handler, opts Options) *GracefulServer {
	return &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       validation.DefaultOrDuration(opts.ReadTimeout, defaultReadTimeout),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      validation.DefaultOrDuration(opts.WriteTimeout, defaultWriteTimeout),
			IdleTimeout:       validation.DefaultOrDuration(opts.IdleTimeout, defaultIdleTimeout),
			MaxHeaderBytes:    1 << 20,
		},
		logger:          logging.OrDefault(opts.Logger).With(logging.Component("server")),
		shutdownTimeout: validation.DefaultOrDuration(opts.ShutdownTimeout, defaultShutdownTimeout),
		shutdownCh:      make(chan struct{}),
		ready:           make(chan struct{}),
	}
}

// Run listens on the configured address and serves until ctx is done or a
// termination signal arrives, then shuts down gracefully.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", gs.server.Addr, err)
	}
	return gs.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (gs *GracefulServer) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	gs.addrMu.Lock()
	gs.addr = ln.Addr().String()
	gs.addrMu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- gs.server.Serve(ln) }()

	gs.logger.Info("http server listening", logging.String("addr", ln.Addr().String()))
	gs.readyOnce.Do(func() { close(gs.ready) })

	for {
		select {
		case err := <-errCh:
			// Shutdown called directly; its caller gets the shutdown error
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-hup:
			gs.logger.Info("received SIGHUP, reloading configuration")
			if err := gs.ReloadConfig(); err != nil {
				gs.logger.Error("configuration reload failed", logging.Error(err))
			}

		case <-ctx.Done():
			gs.logger.Info("starting graceful shutdown", logging.Duration("timeout", gs.shutdownTimeout))
			err := gs.Shutdown(gs.shutdownTimeout)
			<-errCh
			return err
		}
	}
}

// Ready is closed once the server accepts connections.
func (gs *GracefulServer) Ready() <-chan struct{} {
	return gs.ready
}

// Addr returns the bound listen address, or "" before Serve starts.
func (gs *GracefulServer) Addr() string {
	gs.addrMu.RLock()
	defer gs.addrMu.RUnlock()
	return gs.addr
}

// Shutdown initiates a graceful shutdown. Later calls return the first result.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := gs.server.Shutdown(ctx); err != nil {
			gs.shutdownErr = fmt.Errorf("shutdown: %w", err)
			gs.logger.Error("error during shutdown", logging.Error(err))
			return
		}
		gs.logger.Info("server shutdown complete")
	})
	return gs.shutdownErr
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc sets the function to call when configuration reload is triggered
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig triggers a configuration reload
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	reloadFn := gs.configReloadFn
	gs.configMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("configuration reload requested, but no reload function configured")
		return nil
	}

	if err := reloadFn(); err != nil {
		return err
	}
	gs.logger.Info("configuration reload complete")
	return nil
}
