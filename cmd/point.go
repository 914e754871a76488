package cmd

import (
	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// pointCmd resolves a pointer position to a bucket.
var pointCmd = &cobra.Command{
	Use:   "point [source]",
	Short: "Resolve a pointer position to a bucket.",
	Long: `Map an x coordinate on the rendering surface to the bucket under it, the
way a click on the chart would, and describe that bucket.

The coordinate includes the left padding and honors the zoom factor.

Examples:
  # Which bucket sits at x=300 on an 800 wide chart?
  timeline point buckets.json --x 300

  # Same position after zooming in
  timeline point buckets.json --x 300 --zoom 2.25`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePoint(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot resolve point", err)
		}
	},
}
