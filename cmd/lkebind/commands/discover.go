package commands

import (
	"github.com/spf13/cobra"

	"github.com/schemaitat/lab/cmd/lkebind/handlers"
)

// Discover returns the discover command.
func Discover() *cobra.Command {
	var opts handlers.DiscoverOptions

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the cluster's nodes and the addresses bind would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return handlers.Discover(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.ConfigPath, &opts.ClusterID, &opts.Output)

	return cmd
}
