package cmd

import (
	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd re-renders whenever the source changes.
var watchCmd = &cobra.Command{
	Use:   "watch [source]",
	Short: "Re-render the timeline whenever the source changes.",
	Long: `Render the timeline, then watch the source file and render again after every
change. Bursts of writes are coalesced by the debounce window, and a reload that
finishes after a newer one is discarded.

Examples:
  # Follow a fixture that another process rewrites
  timeline watch buckets.json

  # Wait one second of quiet before reloading
  timeline watch buckets.csv --debounce 1s`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWatch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot watch source", err)
		}
	},
}
