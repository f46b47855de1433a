package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"

	"github.com/schemaitat/lab/internal/binding"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/teardown"
)

func logrFrom(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func TestRenderBindResult(t *testing.T) {
	t.Parallel()

	t.Run("in sync", func(t *testing.T) {
		out := renderBindResult(&binding.Result{
			LoadBalancerID: "678",
			Skipped:        []binding.Binding{{ListenPort: 80, Address: "10.0.0.1", Port: 30080}},
		})
		assert.Contains(t, out, "In sync: 1 backends unchanged")
		assert.NotContains(t, out, "Added")
	})

	t.Run("removed and failed", func(t *testing.T) {
		out := renderBindResult(&binding.Result{
			LoadBalancerID: "678",
			Removed:        []binding.Binding{{ListenPort: 80, Address: "10.0.0.9", Port: 30080, AlreadyAbsent: true}},
			Failed: []binding.Failure{{
				Binding: binding.Binding{ListenPort: 443, Address: "10.0.0.2", Port: 30443},
				Action:  binding.ActionAdd,
				Cause:   "status 400: invalid address",
			}},
		})
		assert.Contains(t, out, "Removed")
		assert.Contains(t, out, "already absent")
		assert.Contains(t, out, "status 400: invalid address")
		assert.Contains(t, out, "1 of 2 operations failed")
	})
}

func TestRenderCleanupReport(t *testing.T) {
	t.Parallel()

	report := &teardown.Report{
		ClusterID: "c1",
		Pattern:   "ccm-*",
		DryRun:    true,
		Kinds: []teardown.KindReport{
			{
				Kind:   provider.KindLoadBalancer,
				Policy: teardown.PolicyDelete,
				Status: teardown.StatusCleaned,
				Listed: 2,
				Matches: []teardown.Match{
					{Resource: provider.Resource{ID: "1", Label: "ccm-a1b2"}, Outcome: teardown.OutcomeDryRun},
					{Resource: provider.Resource{ID: "2", Label: "ccm-c3d4"}, Outcome: teardown.OutcomeFailed, Cause: "status 500", Err: errors.New("status 500")},
				},
			},
			{Kind: provider.KindFirewall, Policy: teardown.PolicyReview, Status: teardown.StatusListFailed, Cause: "status 403"},
			{
				Kind:         provider.KindVolume,
				Policy:       teardown.PolicyReview,
				Status:       teardown.StatusListed,
				Unclassified: []provider.Resource{{Kind: provider.KindVolume, ID: "9"}},
			},
			{Kind: provider.KindBucket, Policy: teardown.PolicyReview, Status: teardown.StatusSkipped},
		},
		Caveats: []string{"dry run: nothing was deleted"},
	}

	out := renderCleanupReport(report)
	assert.Contains(t, out, "[dry run]")
	assert.Contains(t, out, "would-delete")
	assert.Contains(t, out, "failed: status 500")
	assert.Contains(t, out, "list failed: status 403")
	assert.Contains(t, out, "unclassified")
	assert.Contains(t, out, "no matches")
	assert.Contains(t, out, "dry run: nothing was deleted")
}

func TestRenderNodes(t *testing.T) {
	t.Parallel()

	out := renderNodes(
		&provider.Cluster{ID: "c1", Label: "prod", Region: "us-east"},
		"c1",
		[]provider.Node{
			{ID: "101", Label: "worker-1", PoolID: "p1", Address: "10.0.0.1", Ready: true},
			{ID: "102", Label: "worker-2", PoolID: "p1"},
		},
	)
	assert.Contains(t, out, "cluster c1 (prod, us-east)")
	assert.Contains(t, out, "worker-2")
	assert.Contains(t, out, "1 of 2 nodes ready")
}
