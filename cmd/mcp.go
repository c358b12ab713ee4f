package cmd

import (
	"github.com/spf13/cobra"

	"github.com/starscope/starscope/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Starscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to reconstruct star history, derive metrics, and compare repositories via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs the full shared setup with no positional repositories:
		// tool calls name their repositories per request.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, provider, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
