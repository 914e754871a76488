package cmd

import (
	"fmt"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/iocache"
	"github.com/huangsam/timeline/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpSetup is sharedSetup without the source requirement, since every tool
// call may name its own source.
func mcpSetup(_ *cobra.Command, args []string) error {
	if err := readInput(args); err != nil {
		return err
	}
	if err := contract.ProcessAndValidateServer(cfg, input); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize caching: %w", err)
	}
	cacheManager = iocache.Manager
	return nil
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp [source]",
	Short:   "Start the Timeline MCP server",
	Long:    `Launch an MCP server over stdio that lets AI agents render, select and inspect commit activity timelines.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: mcpSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
