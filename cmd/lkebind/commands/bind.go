package commands

import (
	"github.com/spf13/cobra"

	"github.com/schemaitat/lab/cmd/lkebind/handlers"
)

// Bind returns the bind command.
func Bind() *cobra.Command {
	var opts handlers.BindOptions

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Register the cluster's nodes as load balancer backends",
		Long: `Bind waits until the cluster's nodes are queryable, then reconciles the
load balancer's backends to them on every configured port mapping
(by default 80 -> 30080 and 443 -> 30443).

Backends for nodes that left the cluster are removed and missing ones are
added. Running bind again against an unchanged cluster makes no changes.

Example:
  lkebind bind -c lkebind.yaml --cluster 12345 --load-balancer 678

The command exits non-zero when any backend could not be reconciled; the
report lists which ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return handlers.Bind(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd, &opts.ConfigPath, &opts.ClusterID, &opts.Output)
	cmd.Flags().StringVar(&opts.LoadBalancerID, "load-balancer", "", "Load balancer id (overrides load_balancer_id in the config)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	return cmd
}
