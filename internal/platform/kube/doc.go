// Package kube discovers cluster nodes through the Kubernetes API.
//
// It is an alternative provider.NodeLister for when a kubeconfig is at hand:
// node readiness comes from the NodeReady condition rather than the
// provider's instance status, and addresses come from the node status.
package kube
