package config

import (
	"errors"
	"fmt"
	"path"

	"k8s.io/apimachinery/pkg/labels"
)

var validModes = map[string]bool{
	"accept": true,
	"reject": true,
	"drain":  true,
	"backup": true,
}

var validKinds = map[string]bool{
	"loadbalancer": true,
	"volume":       true,
	"firewall":     true,
	"dns-record":   true,
	"bucket":       true,
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderLinode:
		if c.Linode.Token == "" {
			errs = append(errs, fmt.Errorf("linode.token is required"))
		}
		errs = append(errs, validateAddressType("linode.address_type", c.Linode.AddressType))
	case ProviderHCloud:
		if c.HCloud.Token == "" {
			errs = append(errs, fmt.Errorf("hcloud.token is required"))
		}
		errs = append(errs, validateAddressType("hcloud.address_type", c.HCloud.AddressType))
	default:
		errs = append(errs, fmt.Errorf("provider must be %q or %q, got %q", ProviderLinode, ProviderHCloud, c.Provider))
	}

	if _, err := labels.Parse(c.KubeNodeSelector); err != nil {
		errs = append(errs, fmt.Errorf("kube_node_selector %q is invalid: %w", c.KubeNodeSelector, err))
	}

	errs = append(errs, c.validatePorts())
	errs = append(errs, c.validateBinding())
	errs = append(errs, c.validateCleanup())

	return errors.Join(errs...)
}

func validateAddressType(field, v string) error {
	if v != AddressPrivate && v != AddressPublic {
		return fmt.Errorf("%s must be %q or %q, got %q", field, AddressPrivate, AddressPublic, v)
	}
	return nil
}

func (c *Config) validatePorts() error {
	var errs []error
	seen := make(map[int]bool, len(c.Ports))
	for i, p := range c.Ports {
		if p.ListenPort < 1 || p.ListenPort > 65535 {
			errs = append(errs, fmt.Errorf("ports[%d].listen_port %d out of range", i, p.ListenPort))
		}
		if p.TargetPort < 1 || p.TargetPort > 65535 {
			errs = append(errs, fmt.Errorf("ports[%d].target_port %d out of range", i, p.TargetPort))
		}
		if seen[p.ListenPort] {
			errs = append(errs, fmt.Errorf("ports[%d].listen_port %d is duplicated", i, p.ListenPort))
		}
		seen[p.ListenPort] = true
	}
	return errors.Join(errs...)
}

func (c *Config) validateBinding() error {
	var errs []error
	if c.Binding.Weight < 1 || c.Binding.Weight > 255 {
		errs = append(errs, fmt.Errorf("binding.weight must be between 1 and 255, got %d", c.Binding.Weight))
	}
	if !validModes[c.Binding.Mode] {
		errs = append(errs, fmt.Errorf("binding.mode %q is not one of accept, reject, drain, backup", c.Binding.Mode))
	}
	if c.Binding.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("binding.parallelism must be at least 1, got %d", c.Binding.Parallelism))
	}
	return errors.Join(errs...)
}

func (c *Config) validateCleanup() error {
	var errs []error
	if _, err := path.Match(c.Cleanup.Pattern, ""); err != nil {
		errs = append(errs, fmt.Errorf("cleanup.pattern %q: %w", c.Cleanup.Pattern, err))
	}
	for kind, policy := range c.Cleanup.Kinds {
		if !validKinds[kind] {
			errs = append(errs, fmt.Errorf("cleanup.kinds: unknown kind %q", kind))
		}
		if policy != PolicyDelete && policy != PolicyReview {
			errs = append(errs, fmt.Errorf("cleanup.kinds.%s: policy must be %q or %q, got %q", kind, PolicyDelete, PolicyReview, policy))
		}
	}
	return errors.Join(errs...)
}
