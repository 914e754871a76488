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

// PrintSelection outputs a committed selection, dispatching based on the output format configured.
func PrintSelection(result schema.SelectionResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON selection"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSelectionCSV(w, result, fmtFloat)
		}, "Wrote CSV selection"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.HTMLOut, schema.ParquetOut:
		return unsupportedOutput("selection", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSelectionTable(w, result, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeSelectionCSV writes the selection as a single row. Bound columns are
// left empty when the selection covers no buckets.
func writeSelectionCSV(w io.Writer, result schema.SelectionResult, fmtFloat func(float64) string) error {
	header := []string{"low", "high", "start_index", "end_index", "from", "to", "notified"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		row := []string{
			fmtFloat(result.Selection.Low),
			fmtFloat(result.Selection.High),
			"", "", "", "",
			strconv.FormatBool(result.Notified),
		}
		if b := result.Bounds; b != nil {
			row[2] = strconv.Itoa(b.StartIndex)
			row[3] = strconv.Itoa(b.EndIndex)
			row[4] = b.From.Format(contract.DateTimeFormat)
			row[5] = b.To.Format(contract.DateTimeFormat)
		}
		return cw.Write(row)
	})
}

// writeSelectionTable prints the requested and committed range with its bounds.
func writeSelectionTable(w io.Writer, result schema.SelectionResult, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	data := [][]string{
		{"Requested", fmt.Sprintf("%s%% - %s%%", fmtFloat(result.Requested.Low), fmtFloat(result.Requested.High))},
		{"Committed", fmt.Sprintf("%s%% - %s%%", fmtFloat(result.Selection.Low), fmtFloat(result.Selection.High))},
	}
	if b := result.Bounds; b != nil {
		data = append(data,
			[]string{"Buckets", fmt.Sprintf("%d - %d", b.StartIndex, b.EndIndex)},
			[]string{"From", b.From.Format(contract.DateTimeFormat)},
			[]string{"To", b.To.Format(contract.DateTimeFormat)},
		)
	}
	data = append(data, []string{"Notified", strconv.FormatBool(result.Notified)})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if result.Bounds == nil {
		if _, err := fmt.Fprintln(w, "Selection is empty, nothing was committed"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Selection completed in %v\n", duration)
	return err
}
