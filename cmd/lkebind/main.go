// Package main is the entry point for the lkebind CLI.
//
// lkebind keeps a managed Kubernetes cluster's ingress load balancer pointed
// at the cluster's nodes, and after a teardown finds the provider resources
// the cluster's controllers created that the declarative destroy left
// behind.
//
// Commands: bind, cleanup, discover, version.
//
// For detailed usage information, run:
//
//	lkebind --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schemaitat/lab/cmd/lkebind/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
