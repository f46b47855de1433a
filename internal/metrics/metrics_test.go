package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_BackendOperation(t *testing.T) {
	r := New()

	r.BackendOperation("lb-1", "add", "succeeded")
	r.BackendOperation("lb-1", "add", "succeeded")
	r.BackendOperation("lb-1", "remove", "failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.backendOps.WithLabelValues("lb-1", "add", "succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.backendOps.WithLabelValues("lb-1", "remove", "failed")))
}

func TestRecorder_CleanupAndDiscovery(t *testing.T) {
	r := New()

	r.CleanupOutcome("42", "loadbalancer", "deleted")
	r.DiscoveryAttempt("42", "not_ready")
	r.DiscoveryAttempt("42", "success")
	r.NodesDiscovered("42", 3)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.cleanupOutcomes.WithLabelValues("42", "loadbalancer", "deleted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.discoveryAttempts.WithLabelValues("42", "not_ready")))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.nodesDiscovered.WithLabelValues("42")))
}

func TestRecorder_ObserveDuration(t *testing.T) {
	r := New()

	r.ObserveDuration("bind", nil, 2*time.Second)
	r.ObserveDuration("cleanup", errors.New("partial"), time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.BackendOperation("lb", "add", "succeeded")
		r.CleanupOutcome("c", "volume", "listed")
		r.DiscoveryAttempt("c", "success")
		r.NodesDiscovered("c", 1)
		r.ObserveDuration("bind", nil, time.Second)
	})
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.BackendOperation("lb-9", "add", "succeeded")

	path := filepath.Join(t.TempDir(), "lkebind.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lkebind_binder_backend_operations_total{action="add",load_balancer="lb-9",result="succeeded"} 1`)
}
