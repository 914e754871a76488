package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/timeline/core/algo"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/parquet"
	"github.com/huangsam/timeline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintFrame outputs a frame, dispatching based on the output format configured.
func PrintFrame(frame schema.Frame, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, frame)
		}, "Wrote JSON frame"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFrameCSV(w, frame, fmtFloat, intFmt)
		}, "Wrote CSV frame"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFrameChart(w, frame)
		}, "Wrote HTML chart"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WritePrimitivesParquet(frame, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Printf("💾 Wrote %d primitives to %s\n", len(frame.Primitives), cfg.OutputFile)
	default:
		// Default to human-readable strip and table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFrameTable(w, frame, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeFrameCSV writes one row per bar.
func writeFrameCSV(w io.Writer, frame schema.Frame, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"index",
		"label",
		"bucket_start",
		"commit_count",
		"file_change_count",
		"complexity",
		"tier",
		"height",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range frame.Bars {
			row := []string{
				strconv.Itoa(b.Index),
				b.Label,
				b.Bucket.BucketStart.Format(contract.DateTimeFormat),
				fmt.Sprintf(intFmt, b.Bucket.CommitCount),
				fmt.Sprintf(intFmt, b.Bucket.FileChangeCount),
				fmtFloat(b.Complexity),
				string(b.Tier),
				fmtFloat(b.Height),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFrameTable prints the bar strip followed by a per-bucket table and summary.
func writeFrameTable(w io.Writer, frame schema.Frame, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if len(frame.Bars) == 0 {
		_, err := fmt.Fprintf(w, "No %s buckets to show. Rendered in %v\n", frame.Granularity, duration)
		return err
	}

	chartHeight := frame.Viewport.Height - 2*frame.Viewport.Padding
	if _, err := fmt.Fprint(w, renderStrip(barPrimitives(frame), chartHeight, GetStripWidth(), cfg.UseColors)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Index", "Label", "Start", "Commits", "Files", "Complexity", "Tier"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range frame.Bars {
		data = append(data, []string{
			strconv.Itoa(b.Index),
			b.Label,
			b.Bucket.BucketStart.Format(time.DateOnly),
			fmt.Sprintf(intFmt, b.Bucket.CommitCount),
			fmt.Sprintf(intFmt, b.Bucket.FileChangeCount),
			fmtFloat(b.Complexity),
			tierLabel(b.Tier, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := frame.Stats
	if _, err := fmt.Fprintf(w, "Showing %d %s buckets (total commits: %s, total file changes: %s, final complexity: %s)\n",
		frame.BucketCount, frame.Granularity,
		humanize.Comma(int64(stats.TotalCommits)), humanize.Comma(int64(stats.TotalFileChanges)),
		fmtFloat(stats.FinalComplexity)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Busiest: %s\n", busiestSummary(frame.Bars, busiestCount)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Zoom %.1fx, playhead at %d. Source query took %dms\n",
		frame.Playback.ZoomFactor, frame.Playback.CurrentIndex, stats.QueryTimeMs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rendered in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// busiestCount is how many buckets the text summary names.
const busiestCount = 3

// busiestSummary names the buckets with the most commits, busiest first.
func busiestSummary(bars []schema.BarSummary, limit int) string {
	buckets := make([]schema.TimeBucket, len(bars))
	for i, b := range bars {
		buckets[i] = b.Bucket
	}
	var parts []string
	for _, r := range algo.RankBuckets(buckets, limit) {
		parts = append(parts, fmt.Sprintf("%s (%s commits)",
			r.Bucket.BucketStart.Format(time.DateOnly), humanize.Comma(int64(r.Bucket.CommitCount))))
	}
	return strings.Join(parts, ", ")
}
