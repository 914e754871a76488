package cmd

import (
	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// playCmd runs a scripted playback.
var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Step the playhead through the timeline.",
	Long: `Apply a zoom script, start playback and record the playhead after every tick.

Playback stops on its own when the playhead reaches the last bucket.

Examples:
  # Ten ticks, one bucket at a time
  timeline play buckets.json --steps 10

  # Zoom in twice, then jump two buckets per tick
  timeline play buckets.json --zoom-in 2 --step 2 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlay(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot play timeline", err)
		}
	},
}
