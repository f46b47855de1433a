package hcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/labels"
)

// GetLoadBalancer returns the load balancer.
func (c *RealClient) GetLoadBalancer(ctx context.Context, loadBalancerID string) (*provider.LoadBalancer, error) {
	lb, err := c.loadBalancer(ctx, "get", loadBalancerID)
	if err != nil {
		return nil, err
	}
	return &provider.LoadBalancer{
		ID:     loadBalancerID,
		Label:  lb.Name,
		Region: locationOf(lb.Location),
		Tags:   labelTags(lb.Labels),
	}, nil
}

// ListBackendConfigs returns one config per service, keyed by listen port.
func (c *RealClient) ListBackendConfigs(ctx context.Context, loadBalancerID string) ([]provider.BackendConfig, error) {
	lb, err := c.loadBalancer(ctx, "list configs", loadBalancerID)
	if err != nil {
		return nil, err
	}

	out := make([]provider.BackendConfig, 0, len(lb.Services))
	for _, svc := range lb.Services {
		out = append(out, provider.BackendConfig{
			ID:             strconv.Itoa(svc.ListenPort),
			LoadBalancerID: loadBalancerID,
			Port:           svc.ListenPort,
			Protocol:       string(svc.Protocol),
			Algorithm:      string(lb.Algorithm.Type),
			HealthCheck:    string(svc.HealthCheck.Protocol),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}

// ListBackends returns the server targets as seen through one service: each
// target's address on the service's destination port.
func (c *RealClient) ListBackends(ctx context.Context, loadBalancerID, configID string) ([]provider.Backend, error) {
	lb, svc, err := c.service(ctx, "list backends", loadBalancerID, configID)
	if err != nil {
		return nil, err
	}

	out := make([]provider.Backend, 0, len(lb.Targets))
	for _, t := range lb.Targets {
		if t.Type != hcloud.LoadBalancerTargetTypeServer || t.Server == nil || t.Server.Server == nil {
			continue
		}
		id := t.Server.Server.ID
		server, _, err := c.client.Server.GetByID(ctx, id)
		if err != nil {
			return nil, wrapError("list backends", provider.KindNode, strconv.FormatInt(id, 10), err)
		}

		b := provider.Backend{
			ID:         strconv.FormatInt(id, 10),
			ConfigID:   configID,
			Port:       svc.DestinationPort,
			Weight:     1,
			Mode:       provider.ModeAccept,
			InstanceID: strconv.FormatInt(id, 10),
		}
		if server != nil {
			b.Label = server.Name
			if t.UsePrivateIP {
				b.Address = privateIP(server)
			} else {
				b.Address = publicIP(server)
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// CreateBackend adds the requested server as a target. A server that is already
// a target is returned as is.
func (c *RealClient) CreateBackend(ctx context.Context, loadBalancerID, configID string, spec provider.BackendSpec) (*provider.Backend, error) {
	if spec.InstanceID == "" {
		return nil, provider.NewError("create backend", provider.KindBackend, spec.Endpoint(), http.StatusBadRequest,
			errors.New("server targets need the node's server id"))
	}
	serverID, err := parseID(provider.KindNode, spec.InstanceID)
	if err != nil {
		return nil, err
	}
	lb, svc, err := c.service(ctx, "create backend", loadBalancerID, configID)
	if err != nil {
		return nil, err
	}

	backend := &provider.Backend{
		ID:         spec.InstanceID,
		ConfigID:   configID,
		Label:      spec.Label,
		Address:    spec.Address,
		Port:       svc.DestinationPort,
		Weight:     1,
		Mode:       provider.ModeAccept,
		InstanceID: spec.InstanceID,
	}
	if hasServerTarget(lb, serverID) {
		return backend, nil
	}

	action, _, err := c.client.LoadBalancer.AddServerTarget(ctx, lb, hcloud.LoadBalancerAddServerTargetOpts{
		Server:       &hcloud.Server{ID: serverID},
		UsePrivateIP: hcloud.Ptr(c.addressType == config.AddressPrivate),
	})
	if err != nil {
		return nil, wrapError("create backend", provider.KindBackend, spec.Endpoint(), err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return nil, wrapError("create backend", provider.KindBackend, spec.Endpoint(), err)
	}
	return backend, nil
}

// DeleteBackend removes the server target from the load balancer.
func (c *RealClient) DeleteBackend(ctx context.Context, loadBalancerID, configID, backendID string) error {
	serverID, err := parseID(provider.KindBackend, backendID)
	if err != nil {
		return err
	}
	lb, _, err := c.service(ctx, "delete backend", loadBalancerID, configID)
	if err != nil {
		return err
	}
	if !hasServerTarget(lb, serverID) {
		return notFound("delete backend", provider.KindBackend, backendID)
	}

	action, _, err := c.client.LoadBalancer.RemoveServerTarget(ctx, lb, &hcloud.Server{ID: serverID})
	if err != nil {
		return wrapError("delete backend", provider.KindBackend, backendID, err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return wrapError("delete backend", provider.KindBackend, backendID, err)
	}
	return nil
}

func (c *RealClient) loadBalancer(ctx context.Context, op, loadBalancerID string) (*hcloud.LoadBalancer, error) {
	id, err := parseID(provider.KindLoadBalancer, loadBalancerID)
	if err != nil {
		return nil, err
	}
	lb, _, err := c.client.LoadBalancer.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(op, provider.KindLoadBalancer, loadBalancerID, err)
	}
	if lb == nil {
		return nil, notFound(op, provider.KindLoadBalancer, loadBalancerID)
	}
	return lb, nil
}

func (c *RealClient) service(ctx context.Context, op, loadBalancerID, configID string) (*hcloud.LoadBalancer, hcloud.LoadBalancerService, error) {
	lb, err := c.loadBalancer(ctx, op, loadBalancerID)
	if err != nil {
		return nil, hcloud.LoadBalancerService{}, err
	}
	for _, svc := range lb.Services {
		if strconv.Itoa(svc.ListenPort) == configID {
			return lb, svc, nil
		}
	}
	return nil, hcloud.LoadBalancerService{}, provider.NewError(op, provider.KindBackendConfig, configID, http.StatusNotFound,
		fmt.Errorf("load balancer %s has no service on port %s: %w", loadBalancerID, configID, provider.ErrNotFound))
}

func hasServerTarget(lb *hcloud.LoadBalancer, serverID int64) bool {
	for _, t := range lb.Targets {
		if t.Type == hcloud.LoadBalancerTargetTypeServer && t.Server != nil && t.Server.Server != nil && t.Server.Server.ID == serverID {
			return true
		}
	}
	return false
}

func locationOf(l *hcloud.Location) string {
	if l == nil {
		return ""
	}
	return l.Name
}

// labelTags renders labels as sorted "key=value" tags.
func labelTags(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tags := make([]string, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, labels.Selector(map[string]string{k: m[k]}))
	}
	return tags
}
