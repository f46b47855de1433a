package binding

import (
	"sort"

	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/naming"
)

// plan is the change set for one BackendConfig.
type plan struct {
	add    []provider.BackendSpec
	remove []provider.Backend
	keep   []provider.Backend
}

// desiredBackends returns one spec per distinct node address, sorted by
// endpoint.
func desiredBackends(nodes []provider.Node, m PortMapping, weight int, mode provider.Mode) []provider.BackendSpec {
	seen := make(map[string]bool, len(nodes))
	specs := make([]provider.BackendSpec, 0, len(nodes))
	for _, n := range nodes {
		if n.Address == "" || seen[n.Address] {
			continue
		}
		seen[n.Address] = true

		name := n.Label
		if name == "" {
			name = n.ID
		}
		specs = append(specs, provider.BackendSpec{
			Label:      naming.BackendLabel(name, m.TargetPort),
			Address:    n.Address,
			Port:       m.TargetPort,
			Weight:     weight,
			Mode:       mode,
			InstanceID: n.ID,
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Endpoint() < specs[j].Endpoint() })
	return specs
}

// diff compares desired and current backends by address:port. A current
// backend duplicating an endpoint that is already kept is removed.
func diff(desired []provider.BackendSpec, current []provider.Backend) plan {
	want := make(map[string]bool, len(desired))
	for _, d := range desired {
		want[d.Endpoint()] = true
	}

	var p plan
	have := make(map[string]bool, len(current))
	for _, c := range current {
		ep := c.Endpoint()
		if want[ep] && !have[ep] {
			have[ep] = true
			p.keep = append(p.keep, c)
			continue
		}
		p.remove = append(p.remove, c)
	}

	for _, d := range desired {
		if !have[d.Endpoint()] {
			p.add = append(p.add, d)
		}
	}
	return p
}
