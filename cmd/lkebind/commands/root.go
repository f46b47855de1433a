// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/schemaitat/lab/cmd/lkebind/handlers"
)

// Root returns the root command for the lkebind CLI.
//
// The root command installs the logger every subcommand reads from its
// context; -v raises the log verbosity.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "lkebind",
		Short:         "Bind cluster nodes to a load balancer and clean up after teardown",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(handlers.WithLogger(cmd.Context(), cmd.ErrOrStderr(), verbosity))
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(Bind())
	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Discover())
	cmd.AddCommand(Version())

	return cmd
}

// addCommonFlags registers the flags every operational command shares.
func addCommonFlags(cmd *cobra.Command, configPath, clusterID, output *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().StringVar(clusterID, "cluster", "", "Cluster id (overrides cluster_id in the config)")
	cmd.Flags().StringVarP(output, "output", "o", handlers.OutputText, "Output format: text or json")
	_ = cmd.MarkFlagRequired("config")
}
