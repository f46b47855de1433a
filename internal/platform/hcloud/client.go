package hcloud

import (
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/labels"
)

// RealClient implements provider.Client using the Hetzner Cloud API.
type RealClient struct {
	client       *hcloud.Client
	clusterLabel string
	addressType  string
}

var _ provider.Client = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	endpoint     string
	clusterLabel string
	addressType  string
	pollInterval time.Duration
	hcloud       *hcloud.Client
}

// WithEndpoint points the client at another API endpoint.
func WithEndpoint(url string) ClientOption {
	return func(o *clientOptions) {
		o.endpoint = url
	}
}

// WithClusterLabel sets the label key that marks a server's cluster.
func WithClusterLabel(key string) ClientOption {
	return func(o *clientOptions) {
		o.clusterLabel = key
	}
}

// WithAddressType selects which server address targets bind to:
// config.AddressPublic (default) or config.AddressPrivate.
func WithAddressType(t string) ClientOption {
	return func(o *clientOptions) {
		o.addressType = t
	}
}

// WithPollInterval sets how often running actions are polled.
func WithPollInterval(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.pollInterval = d
	}
}

// WithHCloudClient sets a preconfigured hcloud client (useful for testing).
func WithHCloudClient(c *hcloud.Client) ClientOption {
	return func(o *clientOptions) {
		o.hcloud = c
	}
}

// NewRealClient creates a new Hetzner Cloud client.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	o := &clientOptions{
		clusterLabel: labels.KeyCluster,
		addressType:  config.AddressPublic,
		pollInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.hcloud
	if hc == nil {
		hopts := []hcloud.ClientOption{
			hcloud.WithToken(token),
			hcloud.WithApplication("lkebind", ""),
			hcloud.WithPollBackoffFunc(hcloud.ConstantBackoff(o.pollInterval)),
		}
		if o.endpoint != "" {
			hopts = append(hopts, hcloud.WithEndpoint(o.endpoint))
		}
		hc = hcloud.NewClient(hopts...)
	}

	return &RealClient{
		client:       hc,
		clusterLabel: o.clusterLabel,
		addressType:  o.addressType,
	}
}

// HCloudClient returns the underlying hcloud.Client.
func (c *RealClient) HCloudClient() *hcloud.Client {
	return c.client
}
