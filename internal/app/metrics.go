package app

import (
	"context"

	"github.com/2beens/sportfrei/internal/telemetry/metrics"
)

// StartMetrics serves prometheus metrics on addr until ctx is done and
// returns the manager to record into. An empty addr disables metrics.
func StartMetrics(ctx context.Context, addr string) *metrics.Manager {
	if addr == "" {
		return nil
	}
	reg := metrics.SetupPrometheus()
	manager := metrics.NewManager(metrics.Namespace, metrics.Subsystem, reg)
	metrics.Serve(ctx, addr, reg)
	return manager
}
