package hcloud

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/labels"
)

// GetCluster describes the cluster formed by the labelled servers. Pools are
// grouped by role label and sized by server type.
func (c *RealClient) GetCluster(ctx context.Context, clusterID string) (*provider.Cluster, error) {
	servers, err := c.clusterServers(ctx, "get", clusterID, labels.SelectorForCluster)
	if err != nil {
		return nil, err
	}

	cluster := &provider.Cluster{
		ID:    clusterID,
		Label: clusterID,
		Tags:  []string{labels.SelectorForCluster(c.clusterLabel, clusterID)},
	}
	pools := make(map[string]*provider.NodePool)
	for _, s := range servers {
		if cluster.Region == "" && s.Datacenter != nil && s.Datacenter.Location != nil {
			cluster.Region = s.Datacenter.Location.Name
		}
		poolID := poolOf(s)
		p, ok := pools[poolID]
		if !ok {
			p = &provider.NodePool{ID: poolID}
			if s.ServerType != nil {
				p.Type = s.ServerType.Name
			}
			pools[poolID] = p
		}
		p.Count++
	}
	for _, p := range pools {
		cluster.Pools = append(cluster.Pools, *p)
	}
	sort.Slice(cluster.Pools, func(i, j int) bool { return cluster.Pools[i].ID < cluster.Pools[j].ID })
	return cluster, nil
}

// ListNodes returns the cluster's worker servers. Control-plane servers do
// not run ingress and are never listed. A cluster without workers yields no
// nodes. A server is ready once it is running and has the address backends
// bind to.
func (c *RealClient) ListNodes(ctx context.Context, clusterID string) ([]provider.Node, error) {
	servers, err := c.clusterServers(ctx, "list nodes", clusterID, labels.WorkerSelector)
	if provider.IsNotFound(err) {
		if _, cerr := c.clusterServers(ctx, "list nodes", clusterID, labels.SelectorForCluster); cerr != nil {
			return nil, cerr
		}
		return []provider.Node{}, nil
	}
	if err != nil {
		return nil, err
	}

	nodes := make([]provider.Node, 0, len(servers))
	for _, s := range servers {
		n := provider.Node{
			ID:             strconv.FormatInt(s.ID, 10),
			Label:          s.Name,
			ClusterID:      clusterID,
			PoolID:         poolOf(s),
			PublicAddress:  publicIP(s),
			PrivateAddress: privateIP(s),
		}
		n.Address = c.pickAddress(n.PublicAddress, n.PrivateAddress)
		n.Ready = s.Status == hcloud.ServerStatusRunning && n.Address != ""
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// clusterServers lists the servers matching selector(key, clusterID).
// Clusters built before the prefixed key was introduced are found under the
// legacy key. No servers under either key is reported as not found.
func (c *RealClient) clusterServers(ctx context.Context, op, clusterID string, selector func(key, clusterID string) string) ([]*hcloud.Server, error) {
	keys := []string{c.clusterLabel}
	if c.clusterLabel == labels.KeyCluster {
		keys = append(keys, labels.LegacyKeyCluster)
	}

	for _, key := range keys {
		servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: selector(key, clusterID)},
		})
		if err != nil {
			return nil, wrapError(op, provider.KindCluster, clusterID, err)
		}
		if len(servers) > 0 {
			return servers, nil
		}
	}
	return nil, provider.NewError(op, provider.KindCluster, clusterID, http.StatusNotFound,
		fmt.Errorf("no servers labelled %s: %w", selector(c.clusterLabel, clusterID), provider.ErrNotFound))
}

func (c *RealClient) pickAddress(public, private string) string {
	if c.addressType == config.AddressPrivate {
		return private
	}
	return public
}

func poolOf(s *hcloud.Server) string {
	if role := s.Labels[labels.KeyRole]; role != "" {
		return role
	}
	return labels.RoleWorker
}

func publicIP(s *hcloud.Server) string {
	return ipString(s.PublicNet.IPv4.IP)
}

func privateIP(s *hcloud.Server) string {
	if len(s.PrivateNet) == 0 {
		return ""
	}
	return ipString(s.PrivateNet[0].IP)
}

func ipString(ip net.IP) string {
	if len(ip) == 0 || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
