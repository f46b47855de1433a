package naming

import (
	"strconv"
	"strings"
)

// Label length limits for load balancer backends.
const (
	MaxBackendLabel = 32
	MinBackendLabel = 3
)

// ControllerPrefix is the label prefix the Linode cloud controller manager
// gives NodeBalancers it creates for Services of type LoadBalancer.
const ControllerPrefix = "ccm-"

// BackendLabel returns the label for the backend binding node to port.
func BackendLabel(node string, port int) string {
	suffix := "-" + strconv.Itoa(port)
	base := sanitize(node)
	if base == "" {
		base = "node"
	}

	if limit := MaxBackendLabel - len(suffix); len(base) > limit {
		// LKE node labels share a long cluster prefix; the tail is unique.
		base = strings.TrimLeft(base[len(base)-limit:], "-_.")
	}

	label := base + suffix
	for len(label) < MinBackendLabel {
		label = "n" + label
	}
	return label
}

// ControllerPattern returns the glob matching controller-created load
// balancers.
func ControllerPattern() string {
	return ControllerPrefix + "*"
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
