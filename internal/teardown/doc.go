// Package teardown finds and removes provider resources a destroyed cluster
// left behind.
//
// Load balancers created by the cloud controller manager for Services of
// type LoadBalancer are not tracked by the declarative infrastructure tool,
// so they survive its destroy step. [Reconciler.Cleanup] lists every
// configured resource kind, classifies each resource against a label glob
// and the cluster id, deletes matches of delete-policy kinds and lists
// matches of review-policy kinds for a human to inspect.
//
// Ownership is inferred from labels and tags, never queried, so every match
// records why it matched and the report carries caveats for weak matches.
package teardown
