// Package config defines the deployment configuration for binding and
// teardown: which provider to talk to, which cluster and load balancer to
// reconcile, the fixed port map, and the cleanup policy per resource kind.
//
// Configuration is read from a YAML file by [Load]. Credentials are not
// stored in the file; they are referenced as ${VAR} and expanded at load
// time, so core packages receive explicit values and never read the
// environment themselves. Retry and timeout knobs come from the environment
// via [LoadTimeouts].
package config
