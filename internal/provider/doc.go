// Package provider defines the capability interface the binding and teardown
// logic depends on, the typed resources it exchanges, and the error taxonomy
// every provider adapter maps its SDK errors into.
//
// Adapters live under internal/platform (linode, hcloud, s3, kube). Core
// packages never import an SDK directly; they only see the types here.
//
// # Error taxonomy
//
//   - [ErrNotReady]: the resource exists but dependent data is not yet
//     available (e.g. a freshly created cluster with no node instances).
//     Retryable.
//   - [ErrNotFound]: the referenced identifier does not exist. Terminal.
//   - [*Error]: a classified provider API failure carrying the resource kind,
//     id and HTTP status. Retryable for network failures, 429 and 5xx.
//   - [*PartialFailure]: an aggregate over a batch in which some
//     sub-operations failed.
package provider
