// Package labels builds label selectors and recognises cluster ownership
// tags on provider resources.
//
// Hetzner Cloud resources carry key/value labels queried through selector
// strings; Linode resources carry free-form tags. Both are reduced here to
// the two questions the core asks: "which selector lists this cluster's
// servers" and "does this tag set name this cluster".
package labels
