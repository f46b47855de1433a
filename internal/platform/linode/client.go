package linode

import (
	"net/http"
	"time"

	"github.com/linode/linodego"
	"golang.org/x/oauth2"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
)

// RealClient implements provider.Client using the Linode API.
type RealClient struct {
	client      *linodego.Client
	addressType string
}

var _ provider.Client = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL     string
	addressType string
	timeout     time.Duration
	linode      *linodego.Client
}

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithAddressType selects which node address backends bind to:
// config.AddressPrivate (default) or config.AddressPublic.
func WithAddressType(t string) ClientOption {
	return func(o *clientOptions) {
		o.addressType = t
	}
}

// WithTimeout bounds each API request.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithLinodeClient sets a preconfigured linodego client (useful for testing).
func WithLinodeClient(c *linodego.Client) ClientOption {
	return func(o *clientOptions) {
		o.linode = c
	}
}

// NewRealClient creates a client authenticating with a personal access token.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	o := &clientOptions{addressType: config.AddressPrivate}
	for _, opt := range opts {
		opt(o)
	}

	lc := o.linode
	if lc == nil {
		hc := &http.Client{
			Timeout: o.timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			},
		}
		c := linodego.NewClient(hc)
		lc = &c
	}
	if o.baseURL != "" {
		lc.SetBaseURL(o.baseURL)
	}

	return &RealClient{client: lc, addressType: o.addressType}
}
