package testing

import (
	"fmt"
	"strconv"

	"github.com/schemaitat/lab/internal/provider"
)

// Nodes builds n ready nodes. addressFormat receives the 1-based index, so
// Nodes(3, "10.0.0.%d") yields 10.0.0.1 through 10.0.0.3.
func Nodes(n int, addressFormat string) []provider.Node {
	nodes := make([]provider.Node, 0, n)
	for i := 1; i <= n; i++ {
		addr := fmt.Sprintf(addressFormat, i)
		nodes = append(nodes, provider.Node{
			ID:             strconv.Itoa(100 + i),
			Label:          fmt.Sprintf("worker-%d", i),
			PoolID:         "pool-1",
			Address:        addr,
			PrivateAddress: addr,
			Ready:          true,
		})
	}
	return nodes
}

// LoadBalancers builds load balancer resources labeled as given. IDs are
// assigned in order starting at 1.
func LoadBalancers(labels ...string) []provider.Resource {
	return Resources(provider.KindLoadBalancer, labels...)
}

// Resources builds resources of kind labeled as given.
func Resources(kind provider.Kind, labels ...string) []provider.Resource {
	out := make([]provider.Resource, 0, len(labels))
	for i, l := range labels {
		out = append(out, provider.Resource{
			Kind:  kind,
			ID:    strconv.Itoa(i + 1),
			Label: l,
		})
	}
	return out
}
