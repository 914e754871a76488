package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// blocks are the eighth-height glyphs of the text bar strip.
var blocks = []rune("▁▂▃▄▅▆▇█")

// barGlyph maps a bar height to a block glyph relative to the chart height.
func barGlyph(height, chartHeight float64) rune {
	if chartHeight <= 0 || height <= 0 {
		return ' '
	}
	ratio := math.Min(height/chartHeight, 1)
	idx := int(math.Ceil(ratio*float64(len(blocks)))) - 1
	return blocks[max(idx, 0)]
}

// barPrimitives returns the bar rects of a frame ordered by bucket index.
func barPrimitives(frame schema.Frame) []schema.Primitive {
	var bars []schema.Primitive
	for _, p := range frame.Primitives {
		if p.Role == schema.BarRole {
			bars = append(bars, p)
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Index < bars[j].Index })
	return bars
}

// axisLabels returns one entry per bucket holding the text of its axis label
// primitive, or an empty string for buckets skipped by the label stride.
func axisLabels(frame schema.Frame) []string {
	labels := make([]string, frame.BucketCount)
	for _, p := range frame.Primitives {
		if p.Role == schema.AxisLabelRole && p.Index >= 0 && p.Index < len(labels) {
			labels[p.Index] = p.Text
		}
	}
	return labels
}

// renderStrip draws one glyph per bar rect, wrapping every width columns.
// Colors follow the tier of each bar when useColors is set.
func renderStrip(bars []schema.Primitive, chartHeight float64, width int, useColors bool) string {
	if len(bars) == 0 {
		return ""
	}
	width = max(width, 1)
	var sb strings.Builder
	for i, b := range bars {
		if i > 0 && i%width == 0 {
			sb.WriteByte('\n')
		}
		glyph := string(barGlyph(b.Height, chartHeight))
		if useColors {
			glyph = contract.TierColor(b.Tier).Sprint(glyph)
		}
		sb.WriteString(glyph)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// tierLabel returns the colored or plain label of a tier.
func tierLabel(tier schema.Tier, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(tier)
	}
	return contract.GetPlainLabel(tier)
}
