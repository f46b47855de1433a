package linode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/schemaitat/lab/internal/provider"
)

// Kinds returns the resource kinds the teardown scan can list on Linode.
func (c *RealClient) Kinds() []provider.Kind {
	return []provider.Kind{
		provider.KindLoadBalancer,
		provider.KindVolume,
		provider.KindFirewall,
		provider.KindDNSRecord,
	}
}

// ListResources lists every resource of kind visible to the token.
func (c *RealClient) ListResources(ctx context.Context, kind provider.Kind) ([]provider.Resource, error) {
	switch kind {
	case provider.KindLoadBalancer:
		return c.listNodeBalancers(ctx)
	case provider.KindVolume:
		return c.listVolumes(ctx)
	case provider.KindFirewall:
		return c.listFirewalls(ctx)
	case provider.KindDNSRecord:
		return c.listDomainRecords(ctx)
	default:
		return nil, fmt.Errorf("linode: unsupported resource kind %s", kind)
	}
}

// DeleteResource deletes r.
func (c *RealClient) DeleteResource(ctx context.Context, r provider.Resource) error {
	if r.Kind == provider.KindDNSRecord {
		domainID, recordID, err := parseRecordID(r.ID)
		if err != nil {
			return err
		}
		return wrapError("delete", r.Kind, r.ID, c.client.DeleteDomainRecord(ctx, domainID, recordID))
	}

	id, err := parseID(r.Kind, r.ID)
	if err != nil {
		return err
	}
	switch r.Kind {
	case provider.KindLoadBalancer:
		err = c.client.DeleteNodeBalancer(ctx, id)
	case provider.KindVolume:
		err = c.client.DeleteVolume(ctx, id)
	case provider.KindFirewall:
		err = c.client.DeleteFirewall(ctx, id)
	default:
		return fmt.Errorf("linode: unsupported resource kind %s", r.Kind)
	}
	return wrapError("delete", r.Kind, r.ID, err)
}

func (c *RealClient) listNodeBalancers(ctx context.Context) ([]provider.Resource, error) {
	nbs, err := c.client.ListNodeBalancers(ctx, nil)
	if err != nil {
		return nil, wrapError("list", provider.KindLoadBalancer, "", err)
	}
	out := make([]provider.Resource, 0, len(nbs))
	for _, nb := range nbs {
		out = append(out, provider.Resource{
			Kind:   provider.KindLoadBalancer,
			ID:     strconv.Itoa(nb.ID),
			Label:  deref(nb.Label),
			Tags:   nb.Tags,
			Region: nb.Region,
		})
	}
	return out, nil
}

func (c *RealClient) listVolumes(ctx context.Context) ([]provider.Resource, error) {
	vols, err := c.client.ListVolumes(ctx, nil)
	if err != nil {
		return nil, wrapError("list", provider.KindVolume, "", err)
	}
	out := make([]provider.Resource, 0, len(vols))
	for _, v := range vols {
		out = append(out, provider.Resource{
			Kind:   provider.KindVolume,
			ID:     strconv.Itoa(v.ID),
			Label:  v.Label,
			Tags:   v.Tags,
			Region: v.Region,
		})
	}
	return out, nil
}

func (c *RealClient) listFirewalls(ctx context.Context) ([]provider.Resource, error) {
	fws, err := c.client.ListFirewalls(ctx, nil)
	if err != nil {
		return nil, wrapError("list", provider.KindFirewall, "", err)
	}
	out := make([]provider.Resource, 0, len(fws))
	for _, fw := range fws {
		out = append(out, provider.Resource{
			Kind:  provider.KindFirewall,
			ID:    strconv.Itoa(fw.ID),
			Label: fw.Label,
			Tags:  fw.Tags,
		})
	}
	return out, nil
}

// listDomainRecords flattens the records of every domain. Record labels are
// fully qualified so apex records still carry a label.
func (c *RealClient) listDomainRecords(ctx context.Context) ([]provider.Resource, error) {
	domains, err := c.client.ListDomains(ctx, nil)
	if err != nil {
		return nil, wrapError("list", provider.KindDNSRecord, "", err)
	}

	var out []provider.Resource
	for _, d := range domains {
		records, err := c.client.ListDomainRecords(ctx, d.ID, nil)
		if err != nil {
			return nil, wrapError("list", provider.KindDNSRecord, d.Domain, err)
		}
		for _, r := range records {
			label := d.Domain
			if r.Name != "" {
				label = r.Name + "." + d.Domain
			}
			out = append(out, provider.Resource{
				Kind:  provider.KindDNSRecord,
				ID:    fmt.Sprintf("%d/%d", d.ID, r.ID),
				Label: label,
				Tags:  d.Tags,
			})
		}
	}
	return out, nil
}

func parseRecordID(id string) (int, int, error) {
	domain, record, ok := strings.Cut(id, "/")
	if !ok {
		return 0, 0, fmt.Errorf("dns record id %q is not domain/record: %w", id, provider.ErrNotFound)
	}
	domainID, err := parseID(provider.KindDNSRecord, domain)
	if err != nil {
		return 0, 0, err
	}
	recordID, err := parseID(provider.KindDNSRecord, record)
	if err != nil {
		return 0, 0, err
	}
	return domainID, recordID, nil
}
