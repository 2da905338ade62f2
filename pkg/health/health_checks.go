package health

import (
	"context"
	"runtime"
)

// PingCheck reports unhealthy when ping fails. Used for export sinks that
// hold a connection (postgres).
func PingCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		if err := ping(ctx); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy, Message: "Connected"}
	}
}

// PipelineCheck wraps a self-test of the analysis pipeline. A failing
// self-test is degraded rather than unhealthy: fallbacks still serve.
func PipelineCheck(selfTest func(ctx context.Context) (details map[string]any, err error)) CheckFunc {
	return func(ctx context.Context) Check {
		details, err := selfTest(ctx)
		if err != nil {
			return Check{Status: StatusDegraded, Message: err.Error(), Details: details}
		}
		return Check{Status: StatusHealthy, Details: details}
	}
}

// MemoryCheck reports degraded once heap allocation exceeds limitBytes.
// limitBytes of zero disables the threshold.
func MemoryCheck(limitBytes uint64) CheckFunc {
	return func(context.Context) Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"alloc_bytes": m.Alloc,
				"sys_bytes":   m.Sys,
				"goroutines":  runtime.NumGoroutine(),
			},
		}
		if limitBytes > 0 && m.Alloc > limitBytes {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}
