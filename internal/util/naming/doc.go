// Package naming derives provider-safe names for the resources the binder
// creates.
//
// Backend labels follow {node}-{port}. Providers cap labels (NodeBalancer
// node labels allow 3-32 characters of [A-Za-z0-9-_.]), so long node labels
// keep their unique tail and drop the head.
package naming
