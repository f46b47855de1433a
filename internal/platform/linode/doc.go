// Package linode implements provider.Client on the Linode API v4 with
// linodego.
//
// LKE node pools supply the cluster's nodes, NodeBalancer configs are the
// BackendConfigs and NodeBalancer nodes are the backends. Volumes,
// firewalls and domain records are listed for the teardown scan.
package linode
