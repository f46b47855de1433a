// Package handlers implements the lkebind commands.
//
// Handlers load configuration, build the provider clients the config
// selects, run the lifecycle service and render its result. Package-level
// function variables are the seams tests replace.
package handlers
