package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/schemaitat/lab/internal/lifecycle"
	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/teardown"
)

// CleanupOptions are the inputs of the cleanup command.
type CleanupOptions struct {
	ConfigPath  string
	ClusterID   string
	Pattern     string
	Yes         bool
	DryRun      bool
	Output      string
	MetricsFile string
	Out         io.Writer
}

// ErrAborted is returned when the operator declines the confirmation prompt.
var ErrAborted = errors.New("cleanup aborted")

// Cleanup handles the cleanup command.
//
// Deleting requires --yes or an interactive confirmation; a dry run needs
// neither. The returned error is non-nil when any kind failed to list, any
// deletion failed or a resource could not be attributed, after the report
// has been printed.
func Cleanup(ctx context.Context, opts CleanupOptions) error {
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
	pattern := firstNonEmpty(opts.Pattern, cfg.Cleanup.Pattern)

	if !opts.Yes && !opts.DryRun {
		if !isInteractive() {
			return errors.New("refusing to delete without confirmation: pass --yes or run interactively")
		}
		ok, err := confirm(ctx, clusterID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	timeouts := loadTimeouts()
	clients, err := newClients(ctx, cfg, timeouts)
	if err != nil {
		return err
	}
	m := metrics.New()
	svc := lifecycle.New(cfg, timeouts, clients, m)

	// A dry run deletes nothing, so it needs no confirmation.
	report, err := svc.Cleanup(ctx, clusterID, pattern, teardown.Options{
		Confirmed: true,
		DryRun:    opts.DryRun,
	})
	if err != nil {
		writeMetrics(ctx, m, opts.MetricsFile)
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if err := writeOutput(opts.Out, opts.Output, report, func() string { return renderCleanupReport(report) }); err != nil {
		return err
	}
	writeMetrics(ctx, m, opts.MetricsFile)
	return report.Err()
}
