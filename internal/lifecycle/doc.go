// Package lifecycle exposes the two library entry points wrapped by the CLI:
// Bind registers a cluster's nodes with its load balancer and Cleanup
// removes what a destroyed cluster left behind.
package lifecycle
