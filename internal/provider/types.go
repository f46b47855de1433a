package provider

import (
	"net"
	"strconv"
)

// Kind identifies a class of provider resource.
type Kind string

// Resource kinds known to the teardown scan.
const (
	KindLoadBalancer Kind = "loadbalancer"
	KindVolume       Kind = "volume"
	KindFirewall     Kind = "firewall"
	KindDNSRecord    Kind = "dns-record"
	KindBucket       Kind = "bucket"

	// Kinds used only for error attribution.
	KindCluster       Kind = "cluster"
	KindNode          Kind = "node"
	KindBackendConfig Kind = "backend-config"
	KindBackend       Kind = "backend"
)

// Mode is the traffic mode of a load balancer backend.
type Mode string

// Backend modes.
const (
	ModeAccept Mode = "accept"
	ModeReject Mode = "reject"
	ModeDrain  Mode = "drain"
	ModeBackup Mode = "backup"
)

// NodePool is a group of identically sized nodes in a cluster.
type NodePool struct {
	ID    string
	Type  string
	Count int
}

// Cluster is a managed Kubernetes cluster as reported by the provider.
type Cluster struct {
	ID     string
	Label  string
	Region string
	Pools  []NodePool
	Tags   []string
}

// Node is a compute instance belonging to exactly one cluster.
type Node struct {
	ID        string
	Label     string
	ClusterID string
	PoolID    string

	// Address is the address backends are bound to. Adapters choose between
	// the public and private address according to their configuration.
	Address        string
	PublicAddress  string
	PrivateAddress string

	Ready bool
}

// LoadBalancer is a provider load balancer.
type LoadBalancer struct {
	ID     string
	Label  string
	Region string
	Tags   []string
}

// BackendConfig is a load balancer's per-port policy.
type BackendConfig struct {
	ID             string
	LoadBalancerID string
	Port           int
	Protocol       string
	Algorithm      string
	HealthCheck    string
}

// Backend is one traffic destination registered under a BackendConfig.
type Backend struct {
	ID         string
	ConfigID   string
	Label      string
	Address    string
	Port       int
	Weight     int
	Mode       Mode
	InstanceID string
}

// Endpoint returns the backend's address:port.
func (b Backend) Endpoint() string {
	return Endpoint(b.Address, b.Port)
}

// BackendSpec describes a backend to create.
type BackendSpec struct {
	Label      string
	Address    string
	Port       int
	Weight     int
	Mode       Mode
	InstanceID string
}

// Endpoint returns the requested address:port.
func (s BackendSpec) Endpoint() string {
	return Endpoint(s.Address, s.Port)
}

// Resource is a provider resource found by a teardown scan.
type Resource struct {
	Kind   Kind
	ID     string
	Label  string
	Tags   []string
	Region string
}

// Endpoint joins an address and port, bracketing IPv6 literals.
func Endpoint(address string, port int) string {
	return net.JoinHostPort(address, strconv.Itoa(port))
}
