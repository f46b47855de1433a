package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/schemaitat/lab/internal/provider"
)

// Kinds implements provider.ResourceClient.
func (c *RealClient) Kinds() []provider.Kind {
	return []provider.Kind{
		provider.KindLoadBalancer,
		provider.KindVolume,
		provider.KindFirewall,
	}
}

// ListResources lists every resource of kind in the project.
func (c *RealClient) ListResources(ctx context.Context, kind provider.Kind) ([]provider.Resource, error) {
	switch kind {
	case provider.KindLoadBalancer:
		lbs, err := c.client.LoadBalancer.All(ctx)
		if err != nil {
			return nil, wrapError("list", kind, "", err)
		}
		return toResources(kind, lbs, func(lb *hcloud.LoadBalancer) provider.Resource {
			return provider.Resource{ID: strconv.FormatInt(lb.ID, 10), Label: lb.Name, Tags: labelTags(lb.Labels), Region: locationOf(lb.Location)}
		}), nil

	case provider.KindVolume:
		vols, err := c.client.Volume.All(ctx)
		if err != nil {
			return nil, wrapError("list", kind, "", err)
		}
		return toResources(kind, vols, func(v *hcloud.Volume) provider.Resource {
			return provider.Resource{ID: strconv.FormatInt(v.ID, 10), Label: v.Name, Tags: labelTags(v.Labels), Region: locationOf(v.Location)}
		}), nil

	case provider.KindFirewall:
		fws, err := c.client.Firewall.All(ctx)
		if err != nil {
			return nil, wrapError("list", kind, "", err)
		}
		return toResources(kind, fws, func(fw *hcloud.Firewall) provider.Resource {
			return provider.Resource{ID: strconv.FormatInt(fw.ID, 10), Label: fw.Name, Tags: labelTags(fw.Labels)}
		}), nil

	default:
		return nil, fmt.Errorf("hcloud: unsupported resource kind %q", kind)
	}
}

// DeleteResource deletes one resource. Deleting an absent resource returns
// an error matching provider.ErrNotFound.
func (c *RealClient) DeleteResource(ctx context.Context, r provider.Resource) error {
	id, err := parseID(r.Kind, r.ID)
	if err != nil {
		return err
	}

	switch r.Kind {
	case provider.KindLoadBalancer:
		_, err = c.client.LoadBalancer.Delete(ctx, &hcloud.LoadBalancer{ID: id})
	case provider.KindVolume:
		_, err = c.client.Volume.Delete(ctx, &hcloud.Volume{ID: id})
	case provider.KindFirewall:
		_, err = c.client.Firewall.Delete(ctx, &hcloud.Firewall{ID: id})
	default:
		return fmt.Errorf("hcloud: unsupported resource kind %q", r.Kind)
	}
	return wrapError("delete", r.Kind, r.ID, err)
}

// toResources converts API objects to provider resources of kind.
func toResources[T any](kind provider.Kind, items []T, convert func(T) provider.Resource) []provider.Resource {
	out := make([]provider.Resource, 0, len(items))
	for _, item := range items {
		r := convert(item)
		r.Kind = kind
		out = append(out, r)
	}
	return out
}
