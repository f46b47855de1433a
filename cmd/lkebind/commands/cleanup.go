package commands

import (
	"github.com/spf13/cobra"

	"github.com/schemaitat/lab/cmd/lkebind/handlers"
)

// Cleanup returns the cleanup command.
func Cleanup() *cobra.Command {
	var opts handlers.CleanupOptions

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Find and remove resources a destroyed cluster left behind",
		Long: `Cleanup scans the account for resources the cluster's controllers created
outside the declarative destroy: load balancers whose label matches the
naming pattern, and volumes, firewalls, DNS records and buckets that
reference the cluster id.

Kinds configured with the delete policy are deleted; review kinds are only
listed. Resources are attributed by name and tags only, so check the
report's caveats before trusting a deletion.

Run it only after the declarative destroy of the cluster and its load
balancer succeeded.

Example:
  lkebind cleanup -c lkebind.yaml --cluster 12345 --dry-run
  lkebind cleanup -c lkebind.yaml --cluster 12345 --yes

WARNING: deletions are irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return handlers.Cleanup(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.ConfigPath, &opts.ClusterID, &opts.Output)
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "Glob for controller-created load balancer labels (overrides cleanup.pattern)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Confirm the cluster was destroyed and skip the prompt")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Classify and report without deleting")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	return cmd
}
