// Package hcloud implements provider.Client on the Hetzner Cloud API.
//
// Hetzner has no managed Kubernetes, so a cluster is the set of servers
// carrying the cluster label (see labels.SelectorForCluster) and its nodes are
// the servers that also carry the worker role (labels.WorkerSelector). A load
// balancer service is a BackendConfig keyed by its listen port and server
// targets are its backends.
//
// Targets belong to the load balancer, not to a single service: adding a
// server that is already a target succeeds without a call, and removing one
// removes it from every service. Bind with a parallelism of 1 against this
// provider so removals and additions for the same server are not reordered
// across services.
//
// Load balancers, volumes and firewalls are listed for the teardown scan;
// their labels are reported as "key=value" tags.
package hcloud
