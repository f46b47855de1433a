package binding

import "fmt"

// PortMapping forwards a load balancer listen port to a port on every node.
type PortMapping struct {
	Name       string
	ListenPort int
	TargetPort int
	Protocol   string
}

func (m PortMapping) String() string {
	if m.Name != "" {
		return fmt.Sprintf("%s %d->%d", m.Name, m.ListenPort, m.TargetPort)
	}
	return fmt.Sprintf("%d->%d", m.ListenPort, m.TargetPort)
}

// DefaultPortMappings returns the ingress mappings HTTP 80->30080 and
// HTTPS 443->30443.
func DefaultPortMappings() []PortMapping {
	return []PortMapping{
		{Name: "http", ListenPort: 80, TargetPort: 30080, Protocol: "http"},
		{Name: "https", ListenPort: 443, TargetPort: 30443, Protocol: "https"},
	}
}
