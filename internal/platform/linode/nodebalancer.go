package linode

import (
	"context"
	"net"
	"strconv"

	"github.com/linode/linodego"

	"github.com/schemaitat/lab/internal/provider"
)

// GetLoadBalancer returns the NodeBalancer.
func (c *RealClient) GetLoadBalancer(ctx context.Context, loadBalancerID string) (*provider.LoadBalancer, error) {
	id, err := parseID(provider.KindLoadBalancer, loadBalancerID)
	if err != nil {
		return nil, err
	}
	nb, err := c.client.GetNodeBalancer(ctx, id)
	if err != nil {
		return nil, wrapError("get", provider.KindLoadBalancer, loadBalancerID, err)
	}
	return &provider.LoadBalancer{
		ID:     loadBalancerID,
		Label:  deref(nb.Label),
		Region: nb.Region,
		Tags:   nb.Tags,
	}, nil
}

// ListBackendConfigs returns the NodeBalancer's port configs.
func (c *RealClient) ListBackendConfigs(ctx context.Context, loadBalancerID string) ([]provider.BackendConfig, error) {
	id, err := parseID(provider.KindLoadBalancer, loadBalancerID)
	if err != nil {
		return nil, err
	}
	configs, err := c.client.ListNodeBalancerConfigs(ctx, id, nil)
	if err != nil {
		return nil, wrapError("list configs", provider.KindLoadBalancer, loadBalancerID, err)
	}

	out := make([]provider.BackendConfig, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, provider.BackendConfig{
			ID:             strconv.Itoa(cfg.ID),
			LoadBalancerID: loadBalancerID,
			Port:           cfg.Port,
			Protocol:       string(cfg.Protocol),
			Algorithm:      string(cfg.Algorithm),
			HealthCheck:    string(cfg.Check),
		})
	}
	return out, nil
}

// ListBackends returns the nodes registered under a config.
func (c *RealClient) ListBackends(ctx context.Context, loadBalancerID, configID string) ([]provider.Backend, error) {
	nbID, cfgID, err := parseConfigIDs(loadBalancerID, configID)
	if err != nil {
		return nil, err
	}
	nodes, err := c.client.ListNodeBalancerNodes(ctx, nbID, cfgID, nil)
	if err != nil {
		return nil, wrapError("list nodes", provider.KindBackendConfig, configID, err)
	}

	out := make([]provider.Backend, 0, len(nodes))
	for _, n := range nodes {
		host, portStr, err := net.SplitHostPort(n.Address)
		if err != nil {
			host = n.Address
		}
		port, _ := strconv.Atoi(portStr)
		out = append(out, provider.Backend{
			ID:       strconv.Itoa(n.ID),
			ConfigID: configID,
			Label:    n.Label,
			Address:  host,
			Port:     port,
			Weight:   n.Weight,
			Mode:     provider.Mode(n.Mode),
		})
	}
	return out, nil
}

// CreateBackend registers a node under a config.
func (c *RealClient) CreateBackend(ctx context.Context, loadBalancerID, configID string, spec provider.BackendSpec) (*provider.Backend, error) {
	nbID, cfgID, err := parseConfigIDs(loadBalancerID, configID)
	if err != nil {
		return nil, err
	}
	n, err := c.client.CreateNodeBalancerNode(ctx, nbID, cfgID, linodego.NodeBalancerNodeCreateOptions{
		Address: spec.Endpoint(),
		Label:   spec.Label,
		Weight:  spec.Weight,
		Mode:    linodego.NodeMode(spec.Mode),
	})
	if err != nil {
		return nil, wrapError("create", provider.KindBackend, spec.Endpoint(), err)
	}
	return &provider.Backend{
		ID:         strconv.Itoa(n.ID),
		ConfigID:   configID,
		Label:      n.Label,
		Address:    spec.Address,
		Port:       spec.Port,
		Weight:     n.Weight,
		Mode:       provider.Mode(n.Mode),
		InstanceID: spec.InstanceID,
	}, nil
}

// DeleteBackend removes a node from a config.
func (c *RealClient) DeleteBackend(ctx context.Context, loadBalancerID, configID, backendID string) error {
	nbID, cfgID, err := parseConfigIDs(loadBalancerID, configID)
	if err != nil {
		return err
	}
	nodeID, err := parseID(provider.KindBackend, backendID)
	if err != nil {
		return err
	}
	if err := c.client.DeleteNodeBalancerNode(ctx, nbID, cfgID, nodeID); err != nil {
		return wrapError("delete", provider.KindBackend, backendID, err)
	}
	return nil
}

func parseConfigIDs(loadBalancerID, configID string) (int, int, error) {
	nbID, err := parseID(provider.KindLoadBalancer, loadBalancerID)
	if err != nil {
		return 0, 0, err
	}
	cfgID, err := parseID(provider.KindBackendConfig, configID)
	if err != nil {
		return 0, 0, err
	}
	return nbID, cfgID, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
