package cmd

import (
	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// selectCmd commits a range selection.
var selectCmd = &cobra.Command{
	Use:   "select [source]",
	Short: "Select a time range by percentage of the chart.",
	Long: `Commit a selection given as two percentages of the chart width and report
the buckets and timestamps it covers.

Both ends are clamped to [0, 100] and swapped when reversed. A selection whose
ends are equal resets to the full range and is not committed.

Examples:
  # Select the middle half of the timeline
  timeline select buckets.json --low 25 --high 75

  # Export the resolved bounds
  timeline select buckets.json --low 0 --high 40 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSelect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot select range", err)
		}
	},
}
