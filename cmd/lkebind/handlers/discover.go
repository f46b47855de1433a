package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/schemaitat/lab/internal/lifecycle"
	"github.com/schemaitat/lab/internal/provider"
)

// DiscoverOptions are the inputs of the discover command.
type DiscoverOptions struct {
	ConfigPath string
	ClusterID  string
	Output     string
	Out        io.Writer
}

type discoverOutput struct {
	Cluster *provider.Cluster `json:"cluster,omitempty"`
	Nodes   []provider.Node   `json:"nodes"`
}

// Discover handles the discover command: a single discovery attempt
// without waiting for readiness.
func Discover(ctx context.Context, opts DiscoverOptions) error {
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

	timeouts := loadTimeouts()
	clients, err := newClients(ctx, cfg, timeouts)
	if err != nil {
		return err
	}
	svc := lifecycle.New(cfg, timeouts, clients, nil)

	cluster, nodes, err := svc.Discover(ctx, clusterID)
	if err != nil && !provider.IsNotReady(err) {
		return fmt.Errorf("discover failed: %w", err)
	}

	out := discoverOutput{Cluster: cluster, Nodes: nodes}
	if out.Nodes == nil {
		out.Nodes = []provider.Node{}
	}
	return writeOutput(opts.Out, opts.Output, out, func() string { return renderNodes(cluster, clusterID, nodes) })
}
