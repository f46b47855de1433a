package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/schemaitat/lab/internal/provider"
)

// MockClient is a testify mock of provider.Client.
type MockClient struct {
	mock.Mock
}

var _ provider.Client = (*MockClient)(nil)

func (m *MockClient) GetCluster(ctx context.Context, clusterID string) (*provider.Cluster, error) {
	args := m.Called(ctx, clusterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Cluster), args.Error(1)
}

func (m *MockClient) ListNodes(ctx context.Context, clusterID string) ([]provider.Node, error) {
	args := m.Called(ctx, clusterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Node), args.Error(1)
}

func (m *MockClient) GetLoadBalancer(ctx context.Context, id string) (*provider.LoadBalancer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.LoadBalancer), args.Error(1)
}

func (m *MockClient) ListBackendConfigs(ctx context.Context, lbID string) ([]provider.BackendConfig, error) {
	args := m.Called(ctx, lbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.BackendConfig), args.Error(1)
}

func (m *MockClient) ListBackends(ctx context.Context, lbID, configID string) ([]provider.Backend, error) {
	args := m.Called(ctx, lbID, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Backend), args.Error(1)
}

func (m *MockClient) CreateBackend(ctx context.Context, lbID, configID string, spec provider.BackendSpec) (*provider.Backend, error) {
	args := m.Called(ctx, lbID, configID, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Backend), args.Error(1)
}

func (m *MockClient) DeleteBackend(ctx context.Context, lbID, configID, backendID string) error {
	args := m.Called(ctx, lbID, configID, backendID)
	return args.Error(0)
}

func (m *MockClient) Kinds() []provider.Kind {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]provider.Kind)
}

func (m *MockClient) ListResources(ctx context.Context, kind provider.Kind) ([]provider.Resource, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Resource), args.Error(1)
}

func (m *MockClient) DeleteResource(ctx context.Context, r provider.Resource) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
