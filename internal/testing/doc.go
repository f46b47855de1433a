// Package testing provides test doubles and fixtures shared by the binding,
// teardown, discovery and lifecycle tests:
//   - FakeProvider: an in-memory provider.Client with fault injection
//   - MockClient: a testify mock of provider.Client for call expectations
//   - Nodes / Resources: fixture builders
//
// Usage:
//
//	fake := testing.NewFakeProvider().
//	    WithCluster("42", testing.Nodes(3, "10.0.0.%d")...).
//	    WithLoadBalancer("lb-1", 80, 443)
package testing
