package config

import "github.com/schemaitat/lab/internal/util/naming"

// Supported providers.
const (
	ProviderLinode = "linode"
	ProviderHCloud = "hcloud"
)

// Node address selection for backends.
const (
	AddressPrivate = "private"
	AddressPublic  = "public"
)

// DefaultKubeNodeSelector excludes control-plane nodes, which do not serve
// ingress traffic.
const DefaultKubeNodeSelector = "!node-role.kubernetes.io/control-plane"

// Cleanup policies per resource kind.
const (
	PolicyDelete = "delete"
	PolicyReview = "review"
)

// Config is the deployment configuration.
type Config struct {
	Provider       string `yaml:"provider"`
	ClusterID      string `yaml:"cluster_id"`
	LoadBalancerID string `yaml:"load_balancer_id"`

	// Kubeconfig optionally points at the cluster's kubeconfig. When set,
	// nodes are discovered from the Kubernetes API instead of the provider.
	Kubeconfig string `yaml:"kubeconfig,omitempty"`

	// KubeNodeSelector is the label selector applied when listing nodes
	// through Kubeconfig. Defaults to excluding control-plane nodes.
	KubeNodeSelector string `yaml:"kube_node_selector,omitempty"`

	Linode        LinodeConfig        `yaml:"linode"`
	HCloud        HCloudConfig        `yaml:"hcloud"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`

	Ports   []PortConfig  `yaml:"ports"`
	Binding BindingConfig `yaml:"binding"`
	Cleanup CleanupConfig `yaml:"cleanup"`
}

// LinodeConfig configures the Linode API client.
type LinodeConfig struct {
	Token       string `yaml:"token"`
	BaseURL     string `yaml:"base_url,omitempty"`
	AddressType string `yaml:"address_type"`
}

// HCloudConfig configures the Hetzner Cloud API client.
type HCloudConfig struct {
	Token        string `yaml:"token"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	ClusterLabel string `yaml:"cluster_label"`
	AddressType  string `yaml:"address_type"`
}

// ObjectStorageConfig enables the review-only bucket scan on an
// S3-compatible endpoint. Leave Endpoint empty to skip it.
type ObjectStorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Enabled reports whether bucket scanning is configured.
func (o ObjectStorageConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != ""
}

// PortConfig maps a load balancer listen port to the node port traffic is
// forwarded to.
type PortConfig struct {
	Name       string `yaml:"name"`
	ListenPort int    `yaml:"listen_port"`
	TargetPort int    `yaml:"target_port"`
	Protocol   string `yaml:"protocol"`
}

// BindingConfig tunes backend registration.
type BindingConfig struct {
	Weight      int    `yaml:"weight"`
	Mode        string `yaml:"mode"`
	Parallelism int    `yaml:"parallelism"`
}

// CleanupConfig controls the teardown scan.
type CleanupConfig struct {
	// Pattern is the glob controller-created load balancer labels match.
	Pattern string `yaml:"pattern"`

	// Kinds maps a resource kind to delete or review.
	Kinds map[string]string `yaml:"kinds"`
}

// DefaultPorts is the ingress port map: HTTP 80->30080, HTTPS 443->30443.
func DefaultPorts() []PortConfig {
	return []PortConfig{
		{Name: "http", ListenPort: 80, TargetPort: 30080, Protocol: "http"},
		{Name: "https", ListenPort: 443, TargetPort: 30443, Protocol: "https"},
	}
}

// DefaultCleanupKinds deletes orphaned load balancers and only lists storage
// and network-policy artifacts.
func DefaultCleanupKinds() map[string]string {
	return map[string]string{
		"loadbalancer": PolicyDelete,
		"volume":       PolicyReview,
		"firewall":     PolicyReview,
		"dns-record":   PolicyReview,
		"bucket":       PolicyReview,
	}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLinode
	}
	if c.Linode.AddressType == "" {
		c.Linode.AddressType = AddressPrivate
	}
	if c.HCloud.AddressType == "" {
		c.HCloud.AddressType = AddressPublic
	}
	if c.HCloud.ClusterLabel == "" {
		c.HCloud.ClusterLabel = "k8zner.io/cluster"
	}
	if c.KubeNodeSelector == "" {
		c.KubeNodeSelector = DefaultKubeNodeSelector
	}
	if len(c.Ports) == 0 {
		c.Ports = DefaultPorts()
	}
	for i := range c.Ports {
		if c.Ports[i].Name == "" {
			c.Ports[i].Name = c.Ports[i].Protocol
		}
	}
	if c.Binding.Weight == 0 {
		c.Binding.Weight = 100
	}
	if c.Binding.Mode == "" {
		c.Binding.Mode = "accept"
	}
	if c.Binding.Parallelism == 0 {
		c.Binding.Parallelism = 2
	}
	if c.Cleanup.Pattern == "" {
		c.Cleanup.Pattern = naming.ControllerPattern()
	}
	if len(c.Cleanup.Kinds) == 0 {
		c.Cleanup.Kinds = DefaultCleanupKinds()
	}
	if c.ObjectStorage.Region == "" {
		c.ObjectStorage.Region = "us-east-1"
	}
}
