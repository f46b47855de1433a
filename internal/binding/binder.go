package binding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/async"
	"github.com/schemaitat/lab/internal/util/retry"
)

// Binder reconciles load balancer backends against cluster nodes.
type Binder struct {
	client  provider.LoadBalancerClient
	metrics *metrics.Recorder

	ports       []PortMapping
	weight      int
	mode        provider.Mode
	parallelism int

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// Option configures a Binder.
type Option func(*Binder)

// WithPorts replaces the default port mappings.
func WithPorts(ports ...PortMapping) Option {
	return func(b *Binder) {
		b.ports = ports
	}
}

// WithWeight sets the weight of created backends.
func WithWeight(weight int) Option {
	return func(b *Binder) {
		b.weight = weight
	}
}

// WithMode sets the traffic mode of created backends.
func WithMode(mode provider.Mode) Option {
	return func(b *Binder) {
		b.mode = mode
	}
}

// WithParallelism bounds how many BackendConfigs are reconciled at once.
func WithParallelism(n int) Option {
	return func(b *Binder) {
		b.parallelism = n
	}
}

// WithRetry sets the per-backend retry budget for transient provider errors.
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) Option {
	return func(b *Binder) {
		b.maxRetries = maxRetries
		b.initialDelay = initialDelay
		b.maxDelay = maxDelay
	}
}

// WithMetrics records backend operations.
func WithMetrics(m *metrics.Recorder) Option {
	return func(b *Binder) {
		b.metrics = m
	}
}

// New creates a Binder using the default HTTP/HTTPS port mappings.
func New(client provider.LoadBalancerClient, opts ...Option) *Binder {
	b := &Binder{
		client:       client,
		ports:        DefaultPortMappings(),
		weight:       100,
		mode:         provider.ModeAccept,
		parallelism:  2,
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Reconcile makes every configured port's backend set equal to the node
// addresses at the mapping's target port.
//
// The returned error is non-nil only when the load balancer itself could not
// be read. Per-backend failures are collected in the Result; check
// Result.Err to decide whether the run fully converged.
func (b *Binder) Reconcile(ctx context.Context, nodes []provider.Node, loadBalancerID string) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("loadBalancer", loadBalancerID)

	if _, err := b.client.GetLoadBalancer(ctx, loadBalancerID); err != nil {
		return nil, fmt.Errorf("failed to get load balancer %s: %w", loadBalancerID, err)
	}

	configs, err := b.client.ListBackendConfigs(ctx, loadBalancerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs of load balancer %s: %w", loadBalancerID, err)
	}
	byPort := make(map[int]provider.BackendConfig, len(configs))
	for _, c := range configs {
		byPort[c.Port] = c
	}

	partials := make([]*Result, len(b.ports))
	tasks := make([]async.Task, 0, len(b.ports))
	for i, m := range b.ports {
		tasks = append(tasks, async.Task{
			Name: m.String(),
			Func: func(ctx context.Context) error {
				partials[i] = b.reconcilePort(ctx, loadBalancerID, m, byPort, nodes)
				return nil
			},
		})
	}
	async.RunBounded(ctx, b.parallelism, tasks)

	result := newResult(loadBalancerID)
	for _, p := range partials {
		result.merge(p)
	}

	log.Info("Reconciled load balancer backends",
		"added", len(result.Added),
		"removed", len(result.Removed),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed))
	return result, nil
}

func (b *Binder) reconcilePort(ctx context.Context, lbID string, m PortMapping, byPort map[int]provider.BackendConfig, nodes []provider.Node) *Result {
	log := logr.FromContextOrDiscard(ctx).WithValues("loadBalancer", lbID, "port", m.ListenPort)
	res := newResult(lbID)
	desired := desiredBackends(nodes, m, b.weight, b.mode)

	cfg, ok := byPort[m.ListenPort]
	if !ok {
		err := fmt.Errorf("load balancer %s has no backend config for port %d: %w", lbID, m.ListenPort, provider.ErrNotFound)
		for _, d := range desired {
			res.fail(specBinding(m, "", d), ActionAdd, err)
			b.metrics.BackendOperation(lbID, string(ActionAdd), "failed")
		}
		return res
	}

	var current []provider.Backend
	err := b.retry(ctx, provider.IsRetryable, func(ctx context.Context) error {
		var err error
		current, err = b.client.ListBackends(ctx, lbID, cfg.ID)
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed to list backends of config %s: %w", cfg.ID, err)
		for _, d := range desired {
			res.fail(specBinding(m, cfg.ID, d), ActionAdd, err)
			b.metrics.BackendOperation(lbID, string(ActionAdd), "failed")
		}
		return res
	}

	p := diff(desired, current)
	for _, k := range p.keep {
		res.Skipped = append(res.Skipped, backendBinding(m, k))
		b.metrics.BackendOperation(lbID, "skip", "succeeded")
	}

	// Removals first so the config never holds old and new backends at once.
	for _, stale := range p.remove {
		bind := backendBinding(m, stale)
		if err := ctx.Err(); err != nil {
			res.fail(bind, ActionRemove, err)
			continue
		}

		err := b.retry(ctx, retryableDelete, func(ctx context.Context) error {
			return b.client.DeleteBackend(ctx, lbID, cfg.ID, stale.ID)
		})
		switch {
		case err == nil:
			res.Removed = append(res.Removed, bind)
			b.metrics.BackendOperation(lbID, string(ActionRemove), "succeeded")
			log.V(1).Info("Removed backend", "endpoint", bind.Endpoint())
		case provider.IsNotFound(err):
			bind.AlreadyAbsent = true
			res.Removed = append(res.Removed, bind)
			b.metrics.BackendOperation(lbID, string(ActionRemove), "already_absent")
			log.V(1).Info("Backend already absent", "endpoint", bind.Endpoint())
		default:
			res.fail(bind, ActionRemove, err)
			b.metrics.BackendOperation(lbID, string(ActionRemove), "failed")
			log.Error(err, "Failed to remove backend", "endpoint", bind.Endpoint())
		}
	}

	for _, spec := range p.add {
		bind := specBinding(m, cfg.ID, spec)
		if err := ctx.Err(); err != nil {
			res.fail(bind, ActionAdd, err)
			continue
		}

		var created *provider.Backend
		err := b.retry(ctx, provider.IsRetryable, func(ctx context.Context) error {
			var err error
			created, err = b.client.CreateBackend(ctx, lbID, cfg.ID, spec)
			return err
		})
		if err != nil {
			res.fail(bind, ActionAdd, err)
			b.metrics.BackendOperation(lbID, string(ActionAdd), "failed")
			log.Error(err, "Failed to add backend", "endpoint", bind.Endpoint())
			continue
		}
		if created != nil {
			bind.BackendID = created.ID
		}
		res.Added = append(res.Added, bind)
		b.metrics.BackendOperation(lbID, string(ActionAdd), "succeeded")
		log.V(1).Info("Added backend", "endpoint", bind.Endpoint())
	}

	return res
}

func (b *Binder) retry(ctx context.Context, retryIf func(error) bool, op func(context.Context) error) error {
	return retry.Do(ctx, op,
		retry.WithMaxRetries(b.maxRetries),
		retry.WithInitialDelay(b.initialDelay),
		retry.WithMaxDelay(b.maxDelay),
		retry.WithRetryIf(retryIf),
	)
}

// retryableDelete refuses to repeat a delete whose outcome is unknown.
func retryableDelete(err error) bool {
	return provider.IsRetryable(err) && !provider.IsAmbiguous(err)
}

func newResult(lbID string) *Result {
	return &Result{
		LoadBalancerID: lbID,
		Added:          []Binding{},
		Removed:        []Binding{},
		Skipped:        []Binding{},
		Failed:         []Failure{},
	}
}

func specBinding(m PortMapping, configID string, s provider.BackendSpec) Binding {
	return Binding{
		ConfigID:   configID,
		ListenPort: m.ListenPort,
		Label:      s.Label,
		Address:    s.Address,
		Port:       s.Port,
	}
}

func backendBinding(m PortMapping, be provider.Backend) Binding {
	return Binding{
		ConfigID:   be.ConfigID,
		ListenPort: m.ListenPort,
		BackendID:  be.ID,
		Label:      be.Label,
		Address:    be.Address,
		Port:       be.Port,
	}
}
