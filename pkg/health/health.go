package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// NewChecker creates a checker reporting version in every response.
func NewChecker(version string) *Checker {
	return &Checker{
		liveChecks:  make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		started:     time.Now(),
		version:     version,
	}
}

// RegisterLivenessCheck registers a probe that runs on both endpoints.
func (c *Checker) RegisterLivenessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// RegisterReadinessCheck registers a probe that runs only for readiness.
func (c *Checker) RegisterReadinessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// CheckLiveness runs the liveness probes.
func (c *Checker) CheckLiveness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run(ctx, c.liveChecks)
}

// CheckReadiness runs liveness and readiness probes together.
func (c *Checker) CheckReadiness(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make(map[string]CheckFunc, len(c.liveChecks)+len(c.readyChecks))
	for name, fn := range c.liveChecks {
		all[name] = fn
	}
	for name, fn := range c.readyChecks {
		all[name] = fn
	}
	return c.run(ctx, all)
}

func (c *Checker) run(ctx context.Context, checks map[string]CheckFunc) Response {
	response := Response{
		Status:    StatusHealthy,
		Version:   c.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(c.started).Seconds(),
		Checks:    make(map[string]Check, len(checks)),
	}

	for name, fn := range checks {
		start := time.Now()
		check := fn(ctx)
		check.Name = name
		check.Duration = time.Since(start)
		response.Checks[name] = check

		// worst status wins
		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}
	return response
}

// LivenessHandler serves CheckLiveness. Degraded still answers 200.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.CheckLiveness(r.Context())
		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		write(w, status, response)
	}
}

// ReadinessHandler serves CheckReadiness. Anything short of healthy is 503.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.CheckReadiness(r.Context())
		status := http.StatusOK
		if response.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		write(w, status, response)
	}
}

func write(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
