package cmd

import (
	"github.com/spf13/cobra"

	"github.com/starscope/starscope/core"
	"github.com/starscope/starscope/internal/contract"
)

// historyCmd reconstructs weekly star history for one or more repositories.
var historyCmd = &cobra.Command{
	Use:   "history owner/repo [owner/repo...]",
	Short: "Reconstruct the weekly star history of repositories.",
	Long: `Rebuild the week-by-week star history of GitHub repositories.

For small repositories the history is exact: every stargazer timestamp is
fetched and folded into a cumulative weekly series. For large repositories,
or when the stargazer list is truncated, the history is estimated from the
repository's age, current star total, and commit/release activity. The
final point of an estimated series always matches the real star total.

Repositories are processed independently: a broken identifier or a rate
limit on one does not abort the rest.

Examples:
  # Reconstruct one repository
  starscope history golang/go

  # Several at once
  starscope history golang/go rust-lang/rust ziglang/zig

  # Pin the horizon for reproducible series
  starscope history golang/go --as-of 2024-01-01T00:00:00Z

  # Export the full series for charting
  starscope history golang/go --output csv --output-file stars.csv

  # Columnar export for DuckDB/pandas
  starscope history golang/go --output parquet --output-file stars.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, provider, cacheManager); err != nil {
			contract.LogFatal("Cannot reconstruct star history", err)
		}
	},
}
