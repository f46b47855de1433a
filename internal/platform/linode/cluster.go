package linode

import (
	"context"
	"strconv"

	"github.com/linode/linodego"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
)

// GetCluster returns the LKE cluster and its node pools.
func (c *RealClient) GetCluster(ctx context.Context, clusterID string) (*provider.Cluster, error) {
	id, err := parseID(provider.KindCluster, clusterID)
	if err != nil {
		return nil, err
	}

	lke, err := c.client.GetLKECluster(ctx, id)
	if err != nil {
		return nil, wrapError("get", provider.KindCluster, clusterID, err)
	}
	pools, err := c.client.ListLKENodePools(ctx, id, nil)
	if err != nil {
		return nil, wrapError("list pools", provider.KindCluster, clusterID, err)
	}

	cluster := &provider.Cluster{
		ID:     clusterID,
		Label:  lke.Label,
		Region: lke.Region,
		Tags:   lke.Tags,
	}
	for _, p := range pools {
		cluster.Pools = append(cluster.Pools, provider.NodePool{
			ID:    strconv.Itoa(p.ID),
			Type:  p.Type,
			Count: p.Count,
		})
	}
	return cluster, nil
}

// ListNodes returns one node per pool member. Members whose instance is not
// provisioned yet are returned without an address.
func (c *RealClient) ListNodes(ctx context.Context, clusterID string) ([]provider.Node, error) {
	id, err := parseID(provider.KindCluster, clusterID)
	if err != nil {
		return nil, err
	}

	pools, err := c.client.ListLKENodePools(ctx, id, nil)
	if err != nil {
		return nil, wrapError("list pools", provider.KindCluster, clusterID, err)
	}

	var nodes []provider.Node
	for _, pool := range pools {
		for _, member := range pool.Linodes {
			node := provider.Node{
				ID:        strconv.Itoa(member.InstanceID),
				Label:     member.ID,
				ClusterID: clusterID,
				PoolID:    strconv.Itoa(pool.ID),
				Ready:     member.Status == linodego.LKELinodeReady,
			}
			if member.InstanceID == 0 {
				nodes = append(nodes, node)
				continue
			}

			inst, err := c.client.GetInstance(ctx, member.InstanceID)
			if err != nil {
				err = wrapError("get", provider.KindNode, node.ID, err)
				if provider.IsNotFound(err) {
					nodes = append(nodes, node)
					continue
				}
				return nil, err
			}

			node.Label = inst.Label
			for _, ip := range inst.IPv4 {
				if ip == nil {
					continue
				}
				if ip.IsPrivate() {
					if node.PrivateAddress == "" {
						node.PrivateAddress = ip.String()
					}
				} else if node.PublicAddress == "" {
					node.PublicAddress = ip.String()
				}
			}
			node.Address = node.PublicAddress
			if c.addressType == config.AddressPrivate {
				node.Address = node.PrivateAddress
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}
