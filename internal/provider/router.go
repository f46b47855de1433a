package provider

import (
	"context"
	"fmt"
)

// Router dispatches resource operations to the client that owns each kind.
// When two clients list the same kind, the first registered wins.
type Router struct {
	order   []Kind
	clients map[Kind]ResourceClient
}

// NewRouter creates a router over the given clients.
func NewRouter(clients ...ResourceClient) *Router {
	r := &Router{clients: make(map[Kind]ResourceClient)}
	for _, c := range clients {
		r.Register(c)
	}
	return r
}

// Register adds every kind the client lists that is not yet routed.
func (r *Router) Register(c ResourceClient) {
	if c == nil {
		return
	}
	for _, k := range c.Kinds() {
		if _, ok := r.clients[k]; ok {
			continue
		}
		r.clients[k] = c
		r.order = append(r.order, k)
	}
}

// Kinds returns the routed kinds in registration order.
func (r *Router) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// ListResources lists resources of kind from the owning client.
func (r *Router) ListResources(ctx context.Context, kind Kind) ([]Resource, error) {
	c, ok := r.clients[kind]
	if !ok {
		return nil, fmt.Errorf("no client lists %s resources", kind)
	}
	return c.ListResources(ctx, kind)
}

// DeleteResource deletes res through the owning client.
func (r *Router) DeleteResource(ctx context.Context, res Resource) error {
	c, ok := r.clients[res.Kind]
	if !ok {
		return fmt.Errorf("no client deletes %s resources", res.Kind)
	}
	return c.DeleteResource(ctx, res)
}
