package cmd

import (
	"github.com/spf13/cobra"

	"github.com/starscope/starscope/core"
	"github.com/starscope/starscope/internal/contract"
)

// metricsCmd derives growth metrics for a single repository.
var metricsCmd = &cobra.Command{
	Use:   "metrics owner/repo",
	Short: "Derive growth metrics for one repository.",
	Long: `Reconstruct a repository's star history and derive growth metrics from it.

Computed metrics:
- Stars per day and annualized growth rate
- Velocity score: recent daily rate against the best week on record
- Consistency score: how evenly stars arrived over the repository's life
- Momentum score: the last four weeks against the lifetime average
- Milestones crossed (100, 500, 1k, 5k, 10k, 50k, 100k) with dates
- Best growth window and a 30-day star projection

Examples:
  # Human-readable summary
  starscope metrics golang/go

  # Machine-readable for dashboards
  starscope metrics golang/go --output json

  # Metrics as of a fixed instant
  starscope metrics golang/go --as-of "6 months ago"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, provider, cacheManager); err != nil {
			contract.LogFatal("Cannot derive metrics", err)
		}
	},
}
