package cmd

import (
	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// renderCmd computes one frame of the timeline.
var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Render the commit activity timeline.",
	Long: `Load commit activity buckets and lay out one frame of the timeline chart.

Each bucket becomes a bar. In complexity mode the bar height follows the
cumulative complexity of the repository up to that bucket; in raw mode it
follows the commit count of the bucket itself. Bars are banded into low,
medium and high tiers.

Examples:
  # Render daily activity from a fixture
  timeline render buckets.json

  # Weekly buckets over the last three months
  timeline render buckets.csv --granularity week --start "3 months"

  # Raw commit bars as an interactive HTML chart
  timeline render buckets.yaml --mode raw --output html --output-file timeline.html

  # Export the draw primitives for another surface
  timeline render buckets.json --output parquet --output-file frame.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render timeline", err)
		}
	},
}
