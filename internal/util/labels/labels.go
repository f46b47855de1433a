package labels

import (
	"sort"
	"strings"
)

// Label keys used to find cluster members on Hetzner Cloud.
const (
	// KeyCluster is the label k8zner-provisioned servers carry.
	KeyCluster = "k8zner.io/cluster"

	// LegacyKeyCluster is the unprefixed key older clusters use.
	LegacyKeyCluster = "cluster"

	// KeyRole identifies control-plane vs worker servers.
	KeyRole = "k8zner.io/role"
)

// RoleWorker is the role of servers that run workloads and ingress.
const RoleWorker = "worker"

// Selector converts a label map into a Hetzner Cloud label selector string.
// Keys are sorted so the result is stable.
func Selector(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

// SelectorForCluster returns a selector for the cluster's servers under key.
// An empty key falls back to KeyCluster.
func SelectorForCluster(key, clusterName string) string {
	if key == "" {
		key = KeyCluster
	}
	return key + "=" + clusterName
}

// WorkerSelector narrows SelectorForCluster to worker servers.
func WorkerSelector(key, clusterName string) string {
	return SelectorForCluster(key, clusterName) + "," + KeyRole + "=" + RoleWorker
}

// TagContaining returns the first tag containing needle, if any.
func TagContaining(tags []string, needle string) (string, bool) {
	if needle == "" {
		return "", false
	}
	for _, t := range tags {
		if strings.Contains(t, needle) {
			return t, true
		}
	}
	return "", false
}
