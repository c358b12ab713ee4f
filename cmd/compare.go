package cmd

import (
	"github.com/spf13/cobra"

	"github.com/starscope/starscope/core"
	"github.com/starscope/starscope/internal/contract"
)

// compareCmd compares the growth of two repositories head to head.
var compareCmd = &cobra.Command{
	Use:   "compare owner/repo owner/repo",
	Short: "Compare the growth of two repositories.",
	Long: `Reconstruct two repositories and compare their growth head to head.

Each comparison dimension (stars, stars per day, annualized growth rate,
velocity, consistency, momentum) names a winner only when one side leads
by more than 10%, so near-equal repositories report a tie instead of
flipping winners between runs. The overall verdict is decided on stars
per day with the same band.

Examples:
  # Head-to-head comparison
  starscope compare golang/go rust-lang/rust

  # Comparison as of a fixed instant
  starscope compare golang/go rust-lang/rust --as-of 2024-06-01T00:00:00Z

  # Export the verdict for reporting
  starscope compare golang/go rust-lang/rust --output csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, provider, cacheManager); err != nil {
			contract.LogFatal("Cannot compare repositories", err)
		}
	},
}
