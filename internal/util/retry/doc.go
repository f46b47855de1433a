// Package retry provides exponential backoff retry logic for transient failures.
//
// [Do] retries an operation with configurable max attempts, initial delay and
// maximum delay. Errors wrapped with [Fatal] stop the loop immediately, and
// [WithRetryIf] lets callers classify errors (for example provider.IsRetryable)
// without wrapping them. Node discovery and every backend or resource call
// issued by the binder and teardown reconciler go through this package.
package retry
