package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/lifecycle"
	"github.com/schemaitat/lab/internal/platform/hcloud"
	"github.com/schemaitat/lab/internal/platform/kube"
	"github.com/schemaitat/lab/internal/platform/linode"
	"github.com/schemaitat/lab/internal/platform/s3"
	"github.com/schemaitat/lab/internal/provider"
)

// Factory function variables - can be replaced in tests.
var (
	// loadConfig reads and validates the configuration file.
	loadConfig = config.Load

	// loadTimeouts reads retry knobs from the environment.
	loadTimeouts = config.LoadTimeouts

	// newClients builds the provider clients the configuration selects.
	newClients = buildClients

	// newNodeSource builds the kubeconfig node source.
	newNodeSource = kube.NewNodeSource
)

// buildClients creates the primary provider client and, when configured,
// the object storage scanner and the kubeconfig node source.
func buildClients(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (lifecycle.Clients, error) {
	log := logr.FromContextOrDiscard(ctx)

	var primary provider.Client
	var addressType string
	switch cfg.Provider {
	case config.ProviderLinode:
		addressType = cfg.Linode.AddressType
		opts := []linode.ClientOption{
			linode.WithAddressType(addressType),
			linode.WithTimeout(timeouts.API),
		}
		if cfg.Linode.BaseURL != "" {
			opts = append(opts, linode.WithBaseURL(cfg.Linode.BaseURL))
		}
		primary = linode.NewRealClient(cfg.Linode.Token, opts...)

	case config.ProviderHCloud:
		addressType = cfg.HCloud.AddressType
		opts := []hcloud.ClientOption{
			hcloud.WithAddressType(addressType),
			hcloud.WithClusterLabel(cfg.HCloud.ClusterLabel),
		}
		if cfg.HCloud.Endpoint != "" {
			opts = append(opts, hcloud.WithEndpoint(cfg.HCloud.Endpoint))
		}
		primary = hcloud.NewRealClient(cfg.HCloud.Token, opts...)

		// Targets are shared by all services of a Hetzner load balancer.
		if cfg.Binding.Parallelism > 1 {
			log.V(1).Info("Limiting binding parallelism to 1 for hcloud", "configured", cfg.Binding.Parallelism)
			cfg.Binding.Parallelism = 1
		}

	default:
		return lifecycle.Clients{}, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	router := provider.NewRouter(primary)
	if cfg.ObjectStorage.Enabled() {
		bucketClient, err := s3.NewClient(ctx, cfg.ObjectStorage.Endpoint, cfg.ObjectStorage.Region,
			cfg.ObjectStorage.AccessKey, cfg.ObjectStorage.SecretKey)
		if err != nil {
			return lifecycle.Clients{}, fmt.Errorf("failed to create object storage client: %w", err)
		}
		router.Register(bucketClient)
	}

	var nodes provider.NodeLister = primary
	if cfg.Kubeconfig != "" {
		src, err := newNodeSource(cfg.Kubeconfig,
			kube.WithAddressType(addressType),
			kube.WithSelector(cfg.KubeNodeSelector))
		if err != nil {
			return lifecycle.Clients{}, fmt.Errorf("failed to create node source: %w", err)
		}
		log.V(1).Info("Discovering nodes from the Kubernetes API",
			"kubeconfig", cfg.Kubeconfig, "selector", cfg.KubeNodeSelector)
		nodes = src
	}

	return lifecycle.Clients{
		Clusters:      primary,
		Nodes:         nodes,
		LoadBalancers: primary,
		Resources:     router,
	}, nil
}
