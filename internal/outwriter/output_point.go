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
)

// PrintPoint outputs a resolved point, dispatching based on the output format configured.
func PrintPoint(point schema.PointResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, point)
		}, "Wrote JSON point"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePointsCSV(w, []schema.PointResult{point}, fmtFloat, intFmt)
		}, "Wrote CSV point"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.HTMLOut, schema.ParquetOut:
		return unsupportedOutput("point", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePointTable(w, point, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writePointsCSV writes one row per point.
func writePointsCSV(w io.Writer, points []schema.PointResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"index", "label", "bucket_start", "commit_count", "file_change_count", "complexity", "tier"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range points {
			row := []string{
				strconv.Itoa(p.Index),
				p.Label,
				p.Bucket.BucketStart.Format(contract.DateTimeFormat),
				fmt.Sprintf(intFmt, p.Bucket.CommitCount),
				fmt.Sprintf(intFmt, p.Bucket.FileChangeCount),
				fmtFloat(p.Complexity),
				string(p.Tier),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePointTable prints the targeted bucket.
func writePointTable(w io.Writer, point schema.PointResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Index", "Label", "Start", "Commits", "Files", "Complexity", "Tier"})
	row := []string{
		strconv.Itoa(point.Index),
		point.Label,
		point.Bucket.BucketStart.Format(contract.DateTimeFormat),
		fmt.Sprintf(intFmt, point.Bucket.CommitCount),
		fmt.Sprintf(intFmt, point.Bucket.FileChangeCount),
		fmtFloat(point.Complexity),
		tierLabel(point.Tier, cfg.UseColors),
	}
	if err := table.Append(row); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Point resolved in %v\n", duration)
	return err
}
