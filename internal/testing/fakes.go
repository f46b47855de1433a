package testing

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/schemaitat/lab/internal/provider"
)

// Call records one mutating call made against FakeProvider.
type Call struct {
	Op       string
	ConfigID string
	Endpoint string
	ID       string
}

// FakeProvider is an in-memory provider.Client. The zero value is not
// usable; create it with NewFakeProvider.
type FakeProvider struct {
	mu sync.Mutex

	clusters      map[string]*provider.Cluster
	nodes         map[string][]provider.Node
	loadBalancers map[string]*provider.LoadBalancer
	configs       map[string][]provider.BackendConfig
	backends      map[string]map[string]provider.Backend // configID -> backendID -> backend
	resources     map[provider.Kind][]provider.Resource

	nextID int
	calls  []Call

	// Fault injection. Each hook may return nil to let the call proceed.
	CreateBackendErr  func(configID string, spec provider.BackendSpec) error
	DeleteBackendErr  func(configID string, b provider.Backend) error
	ListBackendsErr   func(configID string) error
	ListNodesErr      func(clusterID string) error
	ListResourcesErr  func(kind provider.Kind) error
	DeleteResourceErr func(r provider.Resource) error
}

// NewFakeProvider creates an empty fake.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		clusters:      make(map[string]*provider.Cluster),
		nodes:         make(map[string][]provider.Node),
		loadBalancers: make(map[string]*provider.LoadBalancer),
		configs:       make(map[string][]provider.BackendConfig),
		backends:      make(map[string]map[string]provider.Backend),
		resources:     make(map[provider.Kind][]provider.Resource),
		nextID:        1000,
	}
}

// WithCluster registers a cluster and its nodes.
func (f *FakeProvider) WithCluster(clusterID string, nodes ...provider.Node) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clusters[clusterID] = &provider.Cluster{ID: clusterID, Label: "cluster-" + clusterID}
	for i := range nodes {
		nodes[i].ClusterID = clusterID
	}
	f.nodes[clusterID] = nodes
	return f
}

// SetNodes replaces a cluster's nodes.
func (f *FakeProvider) SetNodes(clusterID string, nodes ...provider.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodes[clusterID] = nodes
}

// WithLoadBalancer registers a load balancer with one backend config per
// listen port. Config ids are "<lb>-<port>".
func (f *FakeProvider) WithLoadBalancer(id string, ports ...int) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadBalancers[id] = &provider.LoadBalancer{ID: id, Label: "lb-" + id}
	for _, p := range ports {
		cfgID := id + "-" + strconv.Itoa(p)
		f.configs[id] = append(f.configs[id], provider.BackendConfig{
			ID:             cfgID,
			LoadBalancerID: id,
			Port:           p,
			Protocol:       "tcp",
		})
		f.backends[cfgID] = make(map[string]provider.Backend)
	}
	return f
}

// WithBackend pre-registers a backend under a config.
func (f *FakeProvider) WithBackend(configID, address string, port int) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.backends[configID][id] = provider.Backend{
		ID:       id,
		ConfigID: configID,
		Address:  address,
		Port:     port,
		Weight:   100,
		Mode:     provider.ModeAccept,
	}
	return f
}

// WithResources registers resources for a teardown scan.
func (f *FakeProvider) WithResources(rs ...provider.Resource) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rs {
		f.resources[r.Kind] = append(f.resources[r.Kind], r)
	}
	return f
}

// Endpoints returns the sorted address:port set registered under configID.
func (f *FakeProvider) Endpoints(configID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.backends[configID]))
	for _, b := range f.backends[configID] {
		out = append(out, b.Endpoint())
	}
	sort.Strings(out)
	return out
}

// Calls returns the mutating calls made so far.
func (f *FakeProvider) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// ResetCalls clears the call log.
func (f *FakeProvider) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Remaining returns the resources of kind still present.
func (f *FakeProvider) Remaining(kind provider.Kind) []provider.Resource {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]provider.Resource, len(f.resources[kind]))
	copy(out, f.resources[kind])
	return out
}

func (f *FakeProvider) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func notFound(op string, kind provider.Kind, id string) error {
	return provider.NewError(op, kind, id, http.StatusNotFound, fmt.Errorf("%s not found", kind))
}

// GetCluster implements provider.ClusterReader.
func (f *FakeProvider) GetCluster(_ context.Context, clusterID string) (*provider.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clusters[clusterID]
	if !ok {
		return nil, notFound("get", provider.KindCluster, clusterID)
	}
	cp := *c
	return &cp, nil
}

// ListNodes implements provider.NodeLister.
func (f *FakeProvider) ListNodes(_ context.Context, clusterID string) ([]provider.Node, error) {
	if f.ListNodesErr != nil {
		if err := f.ListNodesErr(clusterID); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clusters[clusterID]; !ok {
		return nil, notFound("list nodes", provider.KindCluster, clusterID)
	}
	out := make([]provider.Node, len(f.nodes[clusterID]))
	copy(out, f.nodes[clusterID])
	return out, nil
}

// GetLoadBalancer implements provider.LoadBalancerClient.
func (f *FakeProvider) GetLoadBalancer(_ context.Context, id string) (*provider.LoadBalancer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lb, ok := f.loadBalancers[id]
	if !ok {
		return nil, notFound("get", provider.KindLoadBalancer, id)
	}
	cp := *lb
	return &cp, nil
}

// ListBackendConfigs implements provider.LoadBalancerClient.
func (f *FakeProvider) ListBackendConfigs(_ context.Context, lbID string) ([]provider.BackendConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.loadBalancers[lbID]; !ok {
		return nil, notFound("list configs", provider.KindLoadBalancer, lbID)
	}
	out := make([]provider.BackendConfig, len(f.configs[lbID]))
	copy(out, f.configs[lbID])
	return out, nil
}

// ListBackends implements provider.LoadBalancerClient.
func (f *FakeProvider) ListBackends(_ context.Context, _, configID string) ([]provider.Backend, error) {
	if f.ListBackendsErr != nil {
		if err := f.ListBackendsErr(configID); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.backends[configID]
	if !ok {
		return nil, notFound("list backends", provider.KindBackendConfig, configID)
	}
	out := make([]provider.Backend, 0, len(set))
	for _, b := range set {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateBackend implements provider.LoadBalancerClient.
func (f *FakeProvider) CreateBackend(_ context.Context, _, configID string, spec provider.BackendSpec) (*provider.Backend, error) {
	if f.CreateBackendErr != nil {
		if err := f.CreateBackendErr(configID, spec); err != nil {
			f.record(Call{Op: "create", ConfigID: configID, Endpoint: spec.Endpoint()})
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.backends[configID]
	if !ok {
		return nil, notFound("create backend", provider.KindBackendConfig, configID)
	}
	id := f.newID()
	b := provider.Backend{
		ID:         id,
		ConfigID:   configID,
		Label:      spec.Label,
		Address:    spec.Address,
		Port:       spec.Port,
		Weight:     spec.Weight,
		Mode:       spec.Mode,
		InstanceID: spec.InstanceID,
	}
	set[id] = b
	f.calls = append(f.calls, Call{Op: "create", ConfigID: configID, Endpoint: b.Endpoint(), ID: id})
	return &b, nil
}

// DeleteBackend implements provider.LoadBalancerClient.
func (f *FakeProvider) DeleteBackend(_ context.Context, _, configID, backendID string) error {
	f.mu.Lock()
	b, ok := f.backends[configID][backendID]
	f.mu.Unlock()

	if f.DeleteBackendErr != nil {
		if err := f.DeleteBackendErr(configID, b); err != nil {
			f.record(Call{Op: "delete", ConfigID: configID, Endpoint: b.Endpoint(), ID: backendID})
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ConfigID: configID, Endpoint: b.Endpoint(), ID: backendID})
	if !ok {
		return notFound("delete", provider.KindBackend, backendID)
	}
	delete(f.backends[configID], backendID)
	return nil
}

// Kinds implements provider.ResourceClient.
func (f *FakeProvider) Kinds() []provider.Kind {
	return []provider.Kind{
		provider.KindLoadBalancer,
		provider.KindVolume,
		provider.KindFirewall,
		provider.KindDNSRecord,
	}
}

// ListResources implements provider.ResourceClient.
func (f *FakeProvider) ListResources(_ context.Context, kind provider.Kind) ([]provider.Resource, error) {
	if f.ListResourcesErr != nil {
		if err := f.ListResourcesErr(kind); err != nil {
			return nil, err
		}
	}
	return f.Remaining(kind), nil
}

// DeleteResource implements provider.ResourceClient.
func (f *FakeProvider) DeleteResource(_ context.Context, r provider.Resource) error {
	f.record(Call{Op: "delete-resource", ID: r.ID, Endpoint: r.Label})
	if f.DeleteResourceErr != nil {
		if err := f.DeleteResourceErr(r); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.resources[r.Kind]
	for i := range list {
		if list[i].ID == r.ID {
			f.resources[r.Kind] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return notFound("delete", r.Kind, r.ID)
}

func (f *FakeProvider) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

var _ provider.Client = (*FakeProvider)(nil)
