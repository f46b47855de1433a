// Package discovery finds the compute nodes of a freshly created cluster.
//
// Cluster creation returns before node instances are queryable, so an empty
// node list is reported as provider.ErrNotReady rather than an empty result.
// [Discoverer.WaitForNodes] absorbs that window with exponential backoff.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/retry"
)

// Discoverer lists cluster nodes through a provider.NodeLister.
type Discoverer struct {
	nodes   provider.NodeLister
	metrics *metrics.Recorder

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithBackoff sets the retry budget used by WaitForNodes.
func WithBackoff(maxRetries int, initialDelay, maxDelay time.Duration) Option {
	return func(d *Discoverer) {
		d.maxRetries = maxRetries
		d.initialDelay = initialDelay
		d.maxDelay = maxDelay
	}
}

// WithMetrics records discovery attempts.
func WithMetrics(m *metrics.Recorder) Option {
	return func(d *Discoverer) {
		d.metrics = m
	}
}

// New creates a Discoverer.
func New(nodes provider.NodeLister, opts ...Option) *Discoverer {
	d := &Discoverer{
		nodes:        nodes,
		maxRetries:   12,
		initialDelay: 5 * time.Second,
		maxDelay:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover returns the cluster's ready nodes in a single attempt. It fails
// with provider.ErrNotFound for an unknown cluster and provider.ErrNotReady
// when the cluster has no nodes yet, some node has no address to bind to, or
// no node is ready. Nodes that have an address but are not ready are left
// out.
func (d *Discoverer) Discover(ctx context.Context, clusterID string) ([]provider.Node, error) {
	nodes, err := d.nodes.ListNodes(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes of cluster %s: %w", clusterID, err)
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("cluster %s has no nodes yet: %w", clusterID, provider.ErrNotReady)
	}

	var pending int
	for _, n := range nodes {
		if n.Address == "" {
			pending++
		}
	}
	if pending > 0 {
		return nil, fmt.Errorf("cluster %s: %d of %d nodes have no address yet: %w",
			clusterID, pending, len(nodes), provider.ErrNotReady)
	}

	log := logr.FromContextOrDiscard(ctx).WithValues("cluster", clusterID)
	ready := make([]provider.Node, 0, len(nodes))
	for _, n := range nodes {
		if !n.Ready {
			log.V(1).Info("Skipping node that is not ready", "node", n.Label, "address", n.Address)
			continue
		}
		ready = append(ready, n)
	}
	if len(ready) == 0 {
		return nil, fmt.Errorf("cluster %s: none of %d nodes is ready: %w", clusterID, len(nodes), provider.ErrNotReady)
	}

	return ready, nil
}

// WaitForNodes calls Discover until it succeeds, retrying ErrNotReady and
// transient provider errors with exponential backoff. NotFound and other
// terminal errors are returned immediately.
func (d *Discoverer) WaitForNodes(ctx context.Context, clusterID string) ([]provider.Node, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("cluster", clusterID)

	var nodes []provider.Node
	err := retry.Do(ctx, func(ctx context.Context) error {
		found, err := d.Discover(ctx, clusterID)
		if err != nil {
			d.metrics.DiscoveryAttempt(clusterID, attemptResult(err))
			return err
		}
		d.metrics.DiscoveryAttempt(clusterID, "success")
		nodes = found
		return nil
	},
		retry.WithMaxRetries(d.maxRetries),
		retry.WithInitialDelay(d.initialDelay),
		retry.WithMaxDelay(d.maxDelay),
		retry.WithRetryIf(provider.IsRetryable),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.V(1).Info("Waiting for cluster nodes", "attempt", attempt, "retryIn", delay.String(), "reason", err.Error())
		}),
	)
	if err != nil {
		return nil, err
	}

	d.metrics.NodesDiscovered(clusterID, len(nodes))
	log.Info("Discovered cluster nodes", "count", len(nodes))
	return nodes, nil
}

func attemptResult(err error) string {
	switch {
	case provider.IsNotReady(err):
		return "not_ready"
	case provider.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
