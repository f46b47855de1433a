package teardown

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/retry"
)

// ErrNotConfirmed is returned when Cleanup runs without the caller
// confirming that the declarative destroy succeeded.
var ErrNotConfirmed = errors.New("cleanup requires confirmation that the cluster was destroyed")

// kindOrder fixes the scan order of well-known kinds.
var kindOrder = map[provider.Kind]int{
	provider.KindLoadBalancer: 0,
	provider.KindVolume:       1,
	provider.KindFirewall:     2,
	provider.KindDNSRecord:    3,
	provider.KindBucket:       4,
}

// DefaultKinds deletes orphaned load balancers and leaves storage and
// network-policy artifacts for manual review.
func DefaultKinds() map[provider.Kind]Policy {
	return map[provider.Kind]Policy{
		provider.KindLoadBalancer: PolicyDelete,
		provider.KindVolume:       PolicyReview,
		provider.KindFirewall:     PolicyReview,
		provider.KindDNSRecord:    PolicyReview,
		provider.KindBucket:       PolicyReview,
	}
}

// Options controls one Cleanup run.
type Options struct {
	// Confirmed must be set by the caller once the declarative destroy of
	// the cluster and its load balancer has succeeded.
	Confirmed bool

	// DryRun classifies and reports without deleting.
	DryRun bool

	// Kinds maps each scanned kind to its policy. Nil uses DefaultKinds.
	Kinds map[provider.Kind]Policy
}

// Reconciler removes orphaned resources after a cluster teardown.
type Reconciler struct {
	resources provider.ResourceClient
	metrics   *metrics.Recorder

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithRetry sets the retry budget for transient list and delete errors.
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) Option {
	return func(r *Reconciler) {
		r.maxRetries = maxRetries
		r.initialDelay = initialDelay
		r.maxDelay = maxDelay
	}
}

// WithMetrics records per-resource outcomes.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// New creates a Reconciler over resources.
func New(resources provider.ResourceClient, opts ...Option) *Reconciler {
	r := &Reconciler{
		resources:    resources,
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cleanup scans every configured resource kind for resources attributed to
// clusterID and handles matches according to each kind's policy.
//
// A match is a resource whose label matches the pattern glob, or whose label
// or one of whose tags contains clusterID. A list failure of one kind does
// not stop the others. The returned error is non-nil only for invalid input
// or a missing confirmation; per-resource failures are in the Report.
func (r *Reconciler) Cleanup(ctx context.Context, clusterID, pattern string, opts Options) (*Report, error) {
	if !opts.Confirmed {
		return nil, ErrNotConfirmed
	}
	matcher, err := NewMatcher(clusterID, pattern)
	if err != nil {
		return nil, err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues("cluster", clusterID)

	policies := opts.Kinds
	if policies == nil {
		policies = DefaultKinds()
	}

	routed := make(map[provider.Kind]bool)
	for _, k := range r.resources.Kinds() {
		routed[k] = true
	}

	report := &Report{
		ClusterID: clusterID,
		Pattern:   pattern,
		DryRun:    opts.DryRun,
		Kinds:     []KindReport{},
		Caveats: []string{fmt.Sprintf(
			"ownership is inferred: labels are matched against %q and searched for %q, the provider records no owning cluster",
			pattern, clusterID)},
	}
	if opts.DryRun {
		report.Caveats = append(report.Caveats, "dry run: nothing was deleted")
	}

	for _, kind := range sortedKinds(policies) {
		policy := policies[kind]
		if !routed[kind] {
			report.Kinds = append(report.Kinds, KindReport{Kind: kind, Policy: policy, Status: StatusSkipped})
			report.Caveats = append(report.Caveats, fmt.Sprintf("%s resources are not listed by any configured client and were not scanned", kind))
			continue
		}

		kr := r.scanKind(ctx, log, matcher, clusterID, kind, policy, opts.DryRun)
		for _, m := range kr.Matches {
			if matcher.PatternOnly(m.Resource) {
				report.Caveats = append(report.Caveats, fmt.Sprintf(
					"%s %q (%s) matched only the pattern and does not reference cluster %s; it may belong to another cluster",
					kind, m.Resource.Label, m.Resource.ID, clusterID))
			}
		}
		report.Kinds = append(report.Kinds, kr)
	}

	log.Info("Cleanup scan finished",
		"deleted", len(report.Matches(OutcomeDeleted)),
		"failed", len(report.Matches(OutcomeFailed)),
		"review", len(report.Matches(OutcomeReview)))
	return report, nil
}

func (r *Reconciler) scanKind(ctx context.Context, log logr.Logger, matcher *Matcher, clusterID string, kind provider.Kind, policy Policy, dryRun bool) KindReport {
	kr := KindReport{
		Kind:         kind,
		Policy:       policy,
		Matches:      []Match{},
		Unrelated:    []provider.Resource{},
		Unclassified: []provider.Resource{},
	}
	log = log.WithValues("kind", kind)

	var resources []provider.Resource
	err := r.retry(ctx, provider.IsRetryable, func(ctx context.Context) error {
		var err error
		resources, err = r.resources.ListResources(ctx, kind)
		return err
	})
	if err != nil {
		kr.Status = StatusListFailed
		kr.Err = err
		kr.Cause = err.Error()
		log.Error(err, "Failed to list resources")
		return kr
	}

	kr.Listed = len(resources)
	kr.Status = StatusListed
	if policy == PolicyDelete {
		kr.Status = StatusCleaned
	}

	for _, res := range resources {
		class, reasons := matcher.Classify(res)
		switch class {
		case ClassUnrelated:
			kr.Unrelated = append(kr.Unrelated, res)
			r.metrics.CleanupOutcome(clusterID, string(kind), "unrelated")
			continue
		case ClassUnclassified:
			kr.Unclassified = append(kr.Unclassified, res)
			r.metrics.CleanupOutcome(clusterID, string(kind), "unclassified")
			log.Info("Resource cannot be attributed", "id", res.ID)
			continue
		}

		m := Match{Resource: res, Reasons: reasons}
		switch {
		case policy != PolicyDelete:
			m.Outcome = OutcomeReview
		case dryRun:
			m.Outcome = OutcomeDryRun
		default:
			r.delete(ctx, log, &m)
		}
		r.metrics.CleanupOutcome(clusterID, string(kind), string(m.Outcome))
		kr.Matches = append(kr.Matches, m)
	}
	return kr
}

func (r *Reconciler) delete(ctx context.Context, log logr.Logger, m *Match) {
	res := m.Resource
	if err := ctx.Err(); err != nil {
		m.Outcome = OutcomeFailed
		m.Err = fmt.Errorf("%s %q not deleted: %w", res.Kind, res.ID, err)
		m.Cause = m.Err.Error()
		return
	}

	log.Info("Deleting resource", "id", res.ID, "label", res.Label)
	err := r.retry(ctx, retryableDelete, func(ctx context.Context) error {
		return r.resources.DeleteResource(ctx, res)
	})
	switch {
	case err == nil:
		m.Outcome = OutcomeDeleted
	case provider.IsNotFound(err):
		m.Outcome = OutcomeAlreadyAbsent
		log.Info("Resource already absent", "id", res.ID)
	default:
		m.Outcome = OutcomeFailed
		m.Err = err
		m.Cause = err.Error()
		log.Error(err, "Failed to delete resource", "id", res.ID)
	}
}

func (r *Reconciler) retry(ctx context.Context, retryIf func(error) bool, op func(context.Context) error) error {
	return retry.Do(ctx, op,
		retry.WithMaxRetries(r.maxRetries),
		retry.WithInitialDelay(r.initialDelay),
		retry.WithMaxDelay(r.maxDelay),
		retry.WithRetryIf(retryIf),
	)
}

// retryableDelete refuses to repeat a delete whose outcome is unknown.
func retryableDelete(err error) bool {
	return provider.IsRetryable(err) && !provider.IsAmbiguous(err)
}

func sortedKinds(policies map[provider.Kind]Policy) []provider.Kind {
	kinds := make([]provider.Kind, 0, len(policies))
	for k := range policies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		oi, iKnown := kindOrder[kinds[i]]
		oj, jKnown := kindOrder[kinds[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return kinds[i] < kinds[j]
		}
	})
	return kinds
}
