package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintPlayback outputs playback ticks, dispatching based on the output format configured.
func PrintPlayback(ticks []schema.PlaybackTick, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ticks)
		}, "Wrote JSON playback"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlaybackCSV(w, ticks, fmtFloat)
		}, "Wrote CSV playback"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.HTMLOut, schema.ParquetOut:
		return unsupportedOutput("playback", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlaybackTable(w, ticks, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writePlaybackCSV writes one row per tick.
func writePlaybackCSV(w io.Writer, ticks []schema.PlaybackTick, fmtFloat func(float64) string) error {
	header := []string{"tick", "index", "playing", "zoom", "label", "bucket_start", "commit_count", "complexity", "tier"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range ticks {
			start := ""
			if !t.Bucket.BucketStart.IsZero() {
				start = t.Bucket.BucketStart.Format(contract.DateTimeFormat)
			}
			row := []string{
				strconv.Itoa(t.Tick),
				strconv.Itoa(t.State.CurrentIndex),
				strconv.FormatBool(t.State.IsPlaying),
				fmtFloat(t.State.ZoomFactor),
				t.Label,
				start,
				strconv.Itoa(t.Bucket.CommitCount),
				fmtFloat(t.Complexity),
				string(t.Tier),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePlaybackTable prints one line per tick.
func writePlaybackTable(w io.Writer, ticks []schema.PlaybackTick, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tick", "Index", "State", "Zoom", "Label", "Commits", "Complexity", "Tier"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, t := range ticks {
		state := "paused"
		if t.State.IsPlaying {
			state = "playing"
		}
		tier := ""
		if t.Tier != "" {
			tier = tierLabel(t.Tier, cfg.UseColors)
		}
		data = append(data, []string{
			strconv.Itoa(t.Tick),
			strconv.Itoa(t.State.CurrentIndex),
			state,
			fmt.Sprintf("%.1fx", t.State.ZoomFactor),
			t.Label,
			strconv.Itoa(t.Bucket.CommitCount),
			fmtFloat(t.Complexity),
			tier,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Played %d ticks in %v\n", len(ticks), duration)
	return err
}
