package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/binding"
	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/discovery"
	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/teardown"
)

// Clients are the provider capabilities the service depends on.
type Clients struct {
	Clusters      provider.ClusterReader
	Nodes         provider.NodeLister
	LoadBalancers provider.LoadBalancerClient
	Resources     provider.ResourceClient
}

// Service wires discovery, binding and teardown together.
type Service struct {
	clusters   provider.ClusterReader
	nodes      provider.NodeLister
	discoverer *discovery.Discoverer
	binder     *binding.Binder
	reconciler *teardown.Reconciler
	metrics    *metrics.Recorder
	kinds      map[provider.Kind]teardown.Policy
}

// New creates a Service from configuration. m may be nil.
func New(cfg *config.Config, timeouts *config.Timeouts, clients Clients, m *metrics.Recorder) *Service {
	return &Service{
		clusters: clients.Clusters,
		nodes:    clients.Nodes,
		discoverer: discovery.New(clients.Nodes,
			discovery.WithBackoff(timeouts.DiscoveryRetries(), timeouts.DiscoveryInitialDelay, timeouts.RetryMaxDelay),
			discovery.WithMetrics(m),
		),
		binder: binding.New(clients.LoadBalancers,
			binding.WithPorts(PortMappings(cfg.Ports)...),
			binding.WithWeight(cfg.Binding.Weight),
			binding.WithMode(provider.Mode(cfg.Binding.Mode)),
			binding.WithParallelism(cfg.Binding.Parallelism),
			binding.WithRetry(timeouts.Retries(), timeouts.RetryInitialDelay, timeouts.RetryMaxDelay),
			binding.WithMetrics(m),
		),
		reconciler: teardown.New(clients.Resources,
			teardown.WithRetry(timeouts.Retries(), timeouts.RetryInitialDelay, timeouts.RetryMaxDelay),
			teardown.WithMetrics(m),
		),
		metrics: m,
		kinds:   CleanupKinds(cfg.Cleanup.Kinds),
	}
}

// Bind waits for the cluster's nodes and reconciles the load balancer's
// backends to them. The error is non-nil when discovery fails or the load
// balancer cannot be read; per-backend failures are reported through
// Result.Err.
func (s *Service) Bind(ctx context.Context, clusterID, loadBalancerID string) (*binding.Result, error) {
	start := time.Now()
	log := logr.FromContextOrDiscard(ctx)
	log.Info("Binding cluster to load balancer", "cluster", clusterID, "loadBalancer", loadBalancerID)

	result, err := s.bind(ctx, clusterID, loadBalancerID)

	observed := err
	if observed == nil {
		observed = result.Err()
	}
	s.metrics.ObserveDuration("bind", observed, time.Since(start))
	return result, err
}

func (s *Service) bind(ctx context.Context, clusterID, loadBalancerID string) (*binding.Result, error) {
	nodes, err := s.discoverer.WaitForNodes(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to discover nodes: %w", err)
	}
	return s.binder.Reconcile(ctx, nodes, loadBalancerID)
}

// Cleanup scans for resources the destroyed cluster left behind. When
// opts.Kinds is nil the configured kind policies apply.
func (s *Service) Cleanup(ctx context.Context, clusterID, pattern string, opts teardown.Options) (*teardown.Report, error) {
	start := time.Now()
	if opts.Kinds == nil {
		opts.Kinds = s.kinds
	}

	report, err := s.reconciler.Cleanup(ctx, clusterID, pattern, opts)

	observed := err
	if observed == nil {
		observed = report.Err()
	}
	s.metrics.ObserveDuration("cleanup", observed, time.Since(start))
	return report, err
}

// Discover returns the cluster and every node it reports, ready or not, in a
// single attempt.
func (s *Service) Discover(ctx context.Context, clusterID string) (*provider.Cluster, []provider.Node, error) {
	var cluster *provider.Cluster
	if s.clusters != nil {
		c, err := s.clusters.GetCluster(ctx, clusterID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get cluster %s: %w", clusterID, err)
		}
		cluster = c
	}

	nodes, err := s.nodes.ListNodes(ctx, clusterID)
	if err != nil {
		return cluster, nil, fmt.Errorf("failed to list nodes of cluster %s: %w", clusterID, err)
	}
	return cluster, nodes, nil
}

// PortMappings converts configured ports to binder mappings.
func PortMappings(ports []config.PortConfig) []binding.PortMapping {
	out := make([]binding.PortMapping, 0, len(ports))
	for _, p := range ports {
		out = append(out, binding.PortMapping{
			Name:       p.Name,
			ListenPort: p.ListenPort,
			TargetPort: p.TargetPort,
			Protocol:   p.Protocol,
		})
	}
	return out
}

// CleanupKinds converts configured kind policies. An empty map yields nil so
// the reconciler falls back to its defaults.
func CleanupKinds(kinds map[string]string) map[provider.Kind]teardown.Policy {
	if len(kinds) == 0 {
		return nil
	}
	out := make(map[provider.Kind]teardown.Policy, len(kinds))
	for k, p := range kinds {
		out[provider.Kind(k)] = teardown.Policy(p)
	}
	return out
}
