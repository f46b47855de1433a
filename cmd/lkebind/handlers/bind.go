package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/lifecycle"
	"github.com/schemaitat/lab/internal/metrics"
)

// BindOptions are the inputs of the bind command.
type BindOptions struct {
	ConfigPath     string
	ClusterID      string
	LoadBalancerID string
	Output         string
	MetricsFile    string
	Out            io.Writer
}

// Bind handles the bind command.
//
// It discovers the cluster's nodes, reconciles the load balancer's backends
// and prints the result. The returned error is non-nil when any backend
// could not be reconciled, after the result has been printed.
func Bind(ctx context.Context, opts BindOptions) error {
	if err := validateOutput(opts.Output); err != nil {
		return err
	}
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	clusterID := firstNonEmpty(opts.ClusterID, cfg.ClusterID)
	if clusterID == "" {
		return errors.New("cluster id is required: set --cluster or cluster_id")
	}
	lbID := firstNonEmpty(opts.LoadBalancerID, cfg.LoadBalancerID)
	if lbID == "" {
		return errors.New("load balancer id is required: set --load-balancer or load_balancer_id")
	}

	timeouts := loadTimeouts()
	clients, err := newClients(ctx, cfg, timeouts)
	if err != nil {
		return err
	}
	m := metrics.New()
	svc := lifecycle.New(cfg, timeouts, clients, m)

	result, err := svc.Bind(ctx, clusterID, lbID)
	if err != nil {
		writeMetrics(ctx, m, opts.MetricsFile)
		return fmt.Errorf("bind failed: %w", err)
	}

	if err := writeOutput(opts.Out, opts.Output, result, func() string { return renderBindResult(result) }); err != nil {
		return err
	}
	writeMetrics(ctx, m, opts.MetricsFile)
	return result.Err()
}

// writeMetrics writes the textfile when path is set. Failures are logged
// and never fail the command.
func writeMetrics(ctx context.Context, m *metrics.Recorder, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logr.FromContextOrDiscard(ctx).Error(err, "Failed to write metrics", "path", path)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
