// Package async provides bounded parallel task execution with per-task
// result collection.
//
// [RunBounded] runs tasks with at most limit in flight, never cancels
// siblings when one fails, and returns one [Result] per task in input order.
// The binder uses it to reconcile backend configs side by side.
package async
