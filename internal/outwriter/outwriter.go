// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteFrame prints a rendered frame using the configured output format.
func (ow *OutWriter) WriteFrame(frame schema.Frame, cfg *contract.Config, duration time.Duration) error {
	return PrintFrame(frame, cfg, duration)
}

// WriteSelection prints a committed selection using the configured output format.
func (ow *OutWriter) WriteSelection(result schema.SelectionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSelection(result, cfg, duration)
}

// WritePoint prints a resolved point using the configured output format.
func (ow *OutWriter) WritePoint(point schema.PointResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPoint(point, cfg, duration)
}

// WritePlayback prints playback ticks using the configured output format.
func (ow *OutWriter) WritePlayback(ticks []schema.PlaybackTick, cfg *contract.Config, duration time.Duration) error {
	return PrintPlayback(ticks, cfg, duration)
}

// GetStripWidth returns how many columns the text bar strip may use before wrapping.
func GetStripWidth() int {
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	// Leave room for the left margin
	return max(detectedWidth-4, 10)
}

// unsupportedOutput reports a format that only the render surface provides.
func unsupportedOutput(what string, mode schema.OutputMode) error {
	return fmt.Errorf("%s output is not supported for %s results, use render", mode, what)
}
