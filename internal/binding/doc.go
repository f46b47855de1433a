// Package binding registers cluster nodes as load balancer backends.
//
// For every port mapping the desired backend set is
// {(node.Address, TargetPort) | node in nodes}. [Binder.Reconcile] reads the
// current backends of the matching BackendConfig, removes the stale ones and
// then adds the missing ones. Current state is always re-read from the
// provider, so a second run against unchanged nodes is a no-op.
package binding
