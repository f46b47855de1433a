package teardown

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	lbtest "github.com/schemaitat/lab/internal/testing"
)

var lbOnly = map[provider.Kind]Policy{provider.KindLoadBalancer: PolicyDelete}

func newReconciler(rc provider.ResourceClient, opts ...Option) *Reconciler {
	opts = append([]Option{WithRetry(2, time.Millisecond, time.Millisecond)}, opts...)
	return New(rc, opts...)
}

func labelsOf(rs []provider.Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Label)
	}
	return out
}

func TestCleanup_ControllerLoadBalancers(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(
		lbtest.LoadBalancers("ccm-abc123", "ccm-cluster-42-xyz", "unrelated-lb")...)

	report, err := newReconciler(fake).Cleanup(context.Background(), "cluster-42", "ccm-*",
		Options{Confirmed: true, Kinds: lbOnly})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	kr, ok := report.Kind(provider.KindLoadBalancer)
	require.True(t, ok)
	assert.Equal(t, StatusCleaned, kr.Status)
	assert.Equal(t, 3, kr.Listed)
	require.Len(t, kr.Matches, 2)
	assert.Equal(t, OutcomeDeleted, kr.Matches[0].Outcome)
	assert.Equal(t, OutcomeDeleted, kr.Matches[1].Outcome)
	assert.Equal(t, []string{"unrelated-lb"}, labelsOf(kr.Unrelated))

	assert.Equal(t, []string{"unrelated-lb"}, labelsOf(fake.Remaining(provider.KindLoadBalancer)))

	require.Len(t, report.Caveats, 2)
	assert.Contains(t, report.Caveats[1], `"ccm-abc123"`)
	assert.Contains(t, report.Caveats[1], "matched only the pattern")
}

func TestCleanup_OnlyMatchesAreDeleted(t *testing.T) {
	t.Parallel()
	labels := []string{
		"ccm-1", "ccm-2", "cluster-42-ingress", "web", "lb-cluster-4", "ccm", "prod-ccm-3", "x-cluster-42",
	}
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers(labels...)...)

	report, err := newReconciler(fake).Cleanup(context.Background(), "cluster-42", "ccm-*",
		Options{Confirmed: true, Kinds: lbOnly})
	require.NoError(t, err)

	m, err := NewMatcher("cluster-42", "ccm-*")
	require.NoError(t, err)
	for _, c := range fake.Calls() {
		class, _ := m.Classify(provider.Resource{Kind: provider.KindLoadBalancer, Label: c.Endpoint})
		assert.Equal(t, ClassMatched, class, "deleted %q without a match", c.Endpoint)
	}
	assert.Equal(t, []string{"web", "lb-cluster-4", "ccm", "prod-ccm-3"}, labelsOf(fake.Remaining(provider.KindLoadBalancer)))
	assert.Len(t, report.Matches(OutcomeDeleted), 4)
}

func TestCleanup_RequiresConfirmation(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers("ccm-1")...)

	_, err := newReconciler(fake).Cleanup(context.Background(), "42", "ccm-*", Options{})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, fake.Calls())
	assert.Len(t, fake.Remaining(provider.KindLoadBalancer), 1)
}

func TestCleanup_InvalidInput(t *testing.T) {
	t.Parallel()
	r := newReconciler(lbtest.NewFakeProvider())

	_, err := r.Cleanup(context.Background(), "", "ccm-*", Options{Confirmed: true})
	assert.Error(t, err)

	_, err = r.Cleanup(context.Background(), "42", "[", Options{Confirmed: true})
	assert.ErrorContains(t, err, "invalid naming pattern")
}

func TestCleanup_ReviewKindsAreNeverMutated(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().
		WithResources(lbtest.Resources(provider.KindVolume, "pvc-cluster-42-data", "scratch")...).
		WithResources(provider.Resource{Kind: provider.KindFirewall, ID: "7", Label: "fw-default", Tags: []string{"lke42"}})

	report, err := newReconciler(fake).Cleanup(context.Background(), "42", "ccm-*", Options{Confirmed: true})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	for _, c := range fake.Calls() {
		t.Errorf("unexpected mutation: %+v", c)
	}

	vol, ok := report.Kind(provider.KindVolume)
	require.True(t, ok)
	assert.Equal(t, StatusListed, vol.Status)
	require.Len(t, vol.Matches, 1)
	assert.Equal(t, OutcomeReview, vol.Matches[0].Outcome)

	fw, _ := report.Kind(provider.KindFirewall)
	require.Len(t, fw.Matches, 1)
	assert.Equal(t, []string{`tag "lke42" contains cluster id "42"`}, fw.Matches[0].Reasons)
	assert.Len(t, report.Matches(OutcomeReview), 2)
}

func TestCleanup_DefaultKindsSkipUnroutedBuckets(t *testing.T) {
	t.Parallel()
	report, err := newReconciler(lbtest.NewFakeProvider()).Cleanup(context.Background(), "42", "ccm-*", Options{Confirmed: true})
	require.NoError(t, err)
	assert.NoError(t, report.Err())

	var kinds []provider.Kind
	for _, k := range report.Kinds {
		kinds = append(kinds, k.Kind)
	}
	assert.Equal(t, []provider.Kind{
		provider.KindLoadBalancer, provider.KindVolume, provider.KindFirewall, provider.KindDNSRecord, provider.KindBucket,
	}, kinds)

	bucket, _ := report.Kind(provider.KindBucket)
	assert.Equal(t, StatusSkipped, bucket.Status)
	assert.Contains(t, report.Caveats[len(report.Caveats)-1], "bucket resources are not listed")
}

func TestCleanup_ListFailureDoesNotStopOtherKinds(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers("ccm-1")...)
	fake.ListResourcesErr = func(kind provider.Kind) error {
		if kind == provider.KindVolume {
			return provider.NewError("list", kind, "", http.StatusForbidden, errors.New("token lacks volumes:read_only"))
		}
		return nil
	}

	report, err := newReconciler(fake).Cleanup(context.Background(), "42", "ccm-*", Options{Confirmed: true})
	require.NoError(t, err)

	vol, _ := report.Kind(provider.KindVolume)
	assert.Equal(t, StatusListFailed, vol.Status)
	assert.Contains(t, vol.Cause, "status 403")

	lb, _ := report.Kind(provider.KindLoadBalancer)
	assert.Equal(t, StatusCleaned, lb.Status)
	assert.Len(t, lb.Matches, 1)

	fw, _ := report.Kind(provider.KindFirewall)
	assert.Equal(t, StatusListed, fw.Status)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list volume")
}

func TestCleanup_DeleteOutcomes(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers("ccm-ok", "ccm-gone", "ccm-denied", "ccm-reset")...)

	var resets atomic.Int32
	fake.DeleteResourceErr = func(r provider.Resource) error {
		switch r.Label {
		case "ccm-gone":
			return provider.NewError("delete", r.Kind, r.ID, http.StatusNotFound, errors.New("not found"))
		case "ccm-denied":
			return provider.NewError("delete", r.Kind, r.ID, http.StatusForbidden, errors.New("forbidden"))
		case "ccm-reset":
			resets.Add(1)
			return provider.NewError("delete", r.Kind, r.ID, 0, errors.New("connection reset"))
		}
		return nil
	}

	m := metrics.New()
	report, err := newReconciler(fake, WithMetrics(m)).Cleanup(context.Background(), "42", "ccm-*",
		Options{Confirmed: true, Kinds: lbOnly})
	require.NoError(t, err)

	outcomes := map[string]Outcome{}
	lb, _ := report.Kind(provider.KindLoadBalancer)
	for _, match := range lb.Matches {
		outcomes[match.Resource.Label] = match.Outcome
	}
	assert.Equal(t, map[string]Outcome{
		"ccm-ok":     OutcomeDeleted,
		"ccm-gone":   OutcomeAlreadyAbsent,
		"ccm-denied": OutcomeFailed,
		"ccm-reset":  OutcomeFailed,
	}, outcomes)
	assert.Equal(t, int32(1), resets.Load(), "ambiguous delete must not be retried")

	var pf *provider.PartialFailure
	require.ErrorAs(t, report.Err(), &pf)
	assert.Len(t, pf.Errors, 2)
	assert.Equal(t, 5, pf.Total)
}

func TestCleanup_DryRun(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers("ccm-1", "ccm-2")...)

	report, err := newReconciler(fake).Cleanup(context.Background(), "42", "ccm-*",
		Options{Confirmed: true, DryRun: true, Kinds: lbOnly})
	require.NoError(t, err)
	assert.NoError(t, report.Err())
	assert.True(t, report.DryRun)
	assert.Len(t, report.Matches(OutcomeDryRun), 2)
	assert.Empty(t, fake.Calls())
	assert.Contains(t, report.Caveats, "dry run: nothing was deleted")
}

func TestCleanup_UnclassifiedFailsLoudly(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(provider.Resource{Kind: provider.KindVolume, ID: "55"})

	report, err := newReconciler(fake).Cleanup(context.Background(), "42", "ccm-*", Options{Confirmed: true})
	require.NoError(t, err)

	vol, _ := report.Kind(provider.KindVolume)
	require.Len(t, vol.Unclassified, 1)
	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `volume "55" has neither label nor tags`)
}

func TestCleanup_CancelledBetweenDeletes(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithResources(lbtest.LoadBalancers("ccm-1", "ccm-2", "ccm-3")...)

	ctx, cancel := context.WithCancel(context.Background())
	fake.DeleteResourceErr = func(provider.Resource) error {
		cancel()
		return nil
	}

	report, err := newReconciler(fake).Cleanup(ctx, "42", "ccm-*", Options{Confirmed: true, Kinds: lbOnly})
	require.NoError(t, err)

	assert.Len(t, report.Matches(OutcomeDeleted), 1)
	failed := report.Matches(OutcomeFailed)
	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[0].Err, context.Canceled)
	assert.Len(t, fake.Calls(), 1)
}
