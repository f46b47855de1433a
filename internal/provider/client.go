package provider

import "context"

// ClusterReader reads managed clusters.
type ClusterReader interface {
	// GetCluster returns the cluster or an error matching ErrNotFound.
	GetCluster(ctx context.Context, clusterID string) (*Cluster, error)
}

// NodeLister lists the compute nodes of a cluster.
type NodeLister interface {
	// ListNodes returns the cluster's current nodes. An unknown cluster yields
	// an error matching ErrNotFound; a known cluster whose instances are not
	// yet queryable yields an empty slice.
	ListNodes(ctx context.Context, clusterID string) ([]Node, error)
}

// LoadBalancerClient manages load balancer backends.
type LoadBalancerClient interface {
	GetLoadBalancer(ctx context.Context, loadBalancerID string) (*LoadBalancer, error)
	ListBackendConfigs(ctx context.Context, loadBalancerID string) ([]BackendConfig, error)
	ListBackends(ctx context.Context, loadBalancerID, configID string) ([]Backend, error)
	CreateBackend(ctx context.Context, loadBalancerID, configID string, spec BackendSpec) (*Backend, error)
	// DeleteBackend removes a backend. Deleting a backend that no longer
	// exists returns an error matching ErrNotFound.
	DeleteBackend(ctx context.Context, loadBalancerID, configID, backendID string) error
}

// ResourceClient lists and deletes resources by kind.
type ResourceClient interface {
	// Kinds returns the resource kinds this client can list.
	Kinds() []Kind
	ListResources(ctx context.Context, kind Kind) ([]Resource, error)
	DeleteResource(ctx context.Context, r Resource) error
}

// Client combines all capabilities a provider adapter offers.
type Client interface {
	ClusterReader
	NodeLister
	LoadBalancerClient
	ResourceClient
}
