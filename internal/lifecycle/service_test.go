package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/metrics"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/teardown"
	lbtest "github.com/schemaitat/lab/internal/testing"
)

func testConfig() *config.Config {
	cfg := &config.Config{Linode: config.LinodeConfig{Token: "t"}}
	cfg.ApplyDefaults()
	return cfg
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		API:                   time.Second,
		RetryMaxAttempts:      1,
		RetryInitialDelay:     time.Millisecond,
		RetryMaxDelay:         time.Millisecond,
		DiscoveryMaxAttempts:  2,
		DiscoveryInitialDelay: time.Millisecond,
	}
}

func newService(fake *lbtest.FakeProvider, m *metrics.Recorder) *Service {
	return New(testConfig(), testTimeouts(), Clients{
		Clusters:      fake,
		Nodes:         fake,
		LoadBalancers: fake,
		Resources:     fake,
	}, m)
}

func TestService_Bind(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().
		WithCluster("42", lbtest.Nodes(3, "10.0.0.%d")...).
		WithLoadBalancer("lb-1", 80, 443)
	m := metrics.New()
	svc := newService(fake, m)

	result, err := svc.Bind(context.Background(), "42", "lb-1")
	require.NoError(t, err)
	assert.NoError(t, result.Err())
	assert.Len(t, result.Added, 6)
	assert.Equal(t, []string{"10.0.0.1:30443", "10.0.0.2:30443", "10.0.0.3:30443"}, fake.Endpoints("lb-1-443"))

	again, err := svc.Bind(context.Background(), "42", "lb-1")
	require.NoError(t, err)
	assert.False(t, again.Changed())

	series, err := testutil.GatherAndCount(m.Registry(), "lkebind_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestService_BindUnknownCluster(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithLoadBalancer("lb-1", 80, 443)

	_, err := newService(fake, nil).Bind(context.Background(), "missing", "lb-1")
	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to discover nodes")
}

func TestService_BindNodesNeverReady(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithCluster("42").WithLoadBalancer("lb-1", 80, 443)

	_, err := newService(fake, nil).Bind(context.Background(), "42", "lb-1")
	assert.ErrorIs(t, err, provider.ErrNotReady)
	assert.Empty(t, fake.Calls())
}

func TestService_CleanupUsesConfiguredKinds(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().
		WithResources(lbtest.LoadBalancers("ccm-1", "web")...).
		WithResources(lbtest.Resources(provider.KindVolume, "pvc-42")...)

	report, err := newService(fake, nil).Cleanup(context.Background(), "42", "ccm-*", teardown.Options{Confirmed: true})
	require.NoError(t, err)

	assert.Len(t, report.Matches(teardown.OutcomeDeleted), 1)
	assert.Len(t, report.Matches(teardown.OutcomeReview), 1)
	assert.Len(t, report.Kinds, 5)
	assert.NoError(t, report.Err())
}

func TestService_CleanupNotConfirmed(t *testing.T) {
	t.Parallel()
	_, err := newService(lbtest.NewFakeProvider(), metrics.New()).Cleanup(context.Background(), "42", "ccm-*", teardown.Options{})
	assert.ErrorIs(t, err, teardown.ErrNotConfirmed)
}

func TestService_Discover(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().WithCluster("42", lbtest.Nodes(2, "192.168.0.%d")...)

	cluster, nodes, err := newService(fake, nil).Discover(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "cluster-42", cluster.Label)
	assert.Len(t, nodes, 2)

	_, _, err = newService(fake, nil).Discover(context.Background(), "7")
	assert.True(t, provider.IsNotFound(err))
}

func TestService_BindSkipsNodesNotReady(t *testing.T) {
	t.Parallel()
	nodes := lbtest.Nodes(3, "10.0.0.%d")
	nodes[2].Ready = false
	fake := lbtest.NewFakeProvider().
		WithCluster("42", nodes...).
		WithLoadBalancer("lb-1", 80, 443)
	svc := newService(fake, nil)

	result, err := svc.Bind(context.Background(), "42", "lb-1")
	require.NoError(t, err)
	assert.Len(t, result.Added, 4)
	assert.Equal(t, []string{"10.0.0.1:30080", "10.0.0.2:30080"}, fake.Endpoints("lb-1-80"))

	_, listed, err := svc.Discover(context.Background(), "42")
	require.NoError(t, err)
	assert.Len(t, listed, 3, "discover lists nodes that are not ready")
}

func TestService_RetryMaxAttemptsCountsAttempts(t *testing.T) {
	t.Parallel()
	fake := lbtest.NewFakeProvider().
		WithCluster("42", lbtest.Nodes(1, "10.0.0.%d")...).
		WithLoadBalancer("lb-1", 80, 443)
	fake.CreateBackendErr = func(string, provider.BackendSpec) error {
		return provider.NewError("create", provider.KindBackend, "", http.StatusServiceUnavailable, errors.New("busy"))
	}

	timeouts := testTimeouts()
	timeouts.RetryMaxAttempts = 3
	svc := New(testConfig(), timeouts, Clients{
		Clusters:      fake,
		Nodes:         fake,
		LoadBalancers: fake,
		Resources:     fake,
	}, nil)

	result, err := svc.Bind(context.Background(), "42", "lb-1")
	require.NoError(t, err)
	require.Len(t, result.Failed, 2)

	var creates int
	for _, c := range fake.Calls() {
		if c.Op == "create" {
			creates++
		}
	}
	assert.Equal(t, 6, creates, "three attempts per port")
}

func TestConversions(t *testing.T) {
	t.Parallel()
	mappings := PortMappings(config.DefaultPorts())
	require.Len(t, mappings, 2)
	assert.Equal(t, 443, mappings[1].ListenPort)
	assert.Equal(t, 30443, mappings[1].TargetPort)

	assert.Nil(t, CleanupKinds(nil))
	assert.Equal(t, map[provider.Kind]teardown.Policy{provider.KindVolume: teardown.PolicyDelete},
		CleanupKinds(map[string]string{"volume": "delete"}))
}
