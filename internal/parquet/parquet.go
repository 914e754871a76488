// Package parquet provides row types and functions for reading bucket fixtures
// from and writing frames to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/timeline/schema"
	"github.com/parquet-go/parquet-go"
)

// BucketRow represents a single time bucket.
type BucketRow struct {
	// BucketStart is the start of the interval (stored as TIMESTAMP with nanosecond precision)
	BucketStart time.Time `parquet:"bucket_start,snappy"`

	// CommitCount is the number of commits in the interval
	CommitCount int64 `parquet:"commit_count,snappy"`

	// FileChangeCount is the number of file changes in the interval
	FileChangeCount int64 `parquet:"file_change_count,snappy"`

	// Granularity is "day" or "week" (nullable, defaults to day when read)
	Granularity *string `parquet:"granularity,optional,snappy"`
}

// PrimitiveRow represents a single draw primitive of a frame.
type PrimitiveRow struct {
	Kind   string  `parquet:"kind,snappy"`
	Role   string  `parquet:"role,snappy"`
	Index  int32   `parquet:"bucket_index,snappy"`
	X      float64 `parquet:"x,snappy"`
	Y      float64 `parquet:"y,snappy"`
	Width  float64 `parquet:"width,snappy"`
	Height float64 `parquet:"height,snappy"`
	X2     float64 `parquet:"x2,snappy"`
	Y2     float64 `parquet:"y2,snappy"`

	// Tier is set for bars only
	Tier *string `parquet:"tier,optional,snappy"`

	// Text is set for labels only
	Text *string `parquet:"text,optional,snappy"`
}

// ToBucketRows converts buckets into rows.
func ToBucketRows(buckets []schema.TimeBucket) []BucketRow {
	rows := make([]BucketRow, len(buckets))
	for i, b := range buckets {
		rows[i] = BucketRow{
			BucketStart:     b.BucketStart.UTC(),
			CommitCount:     int64(b.CommitCount),
			FileChangeCount: int64(b.FileChangeCount),
			Granularity:     optionalString(string(b.Granularity)),
		}
	}
	return rows
}

// FromBucketRows converts rows into buckets. Missing granularity becomes day.
func FromBucketRows(rows []BucketRow) []schema.TimeBucket {
	buckets := make([]schema.TimeBucket, len(rows))
	for i, r := range rows {
		g := schema.DayGranularity
		if r.Granularity != nil && *r.Granularity != "" {
			g = schema.Granularity(*r.Granularity)
		}
		buckets[i] = schema.TimeBucket{
			BucketStart:     r.BucketStart.UTC(),
			CommitCount:     int(r.CommitCount),
			FileChangeCount: int(r.FileChangeCount),
			Granularity:     g,
		}
	}
	return buckets
}

// ToPrimitiveRows converts the primitives of a frame into rows.
func ToPrimitiveRows(primitives []schema.Primitive) []PrimitiveRow {
	rows := make([]PrimitiveRow, len(primitives))
	for i, p := range primitives {
		rows[i] = PrimitiveRow{
			Kind:   string(p.Kind),
			Role:   p.Role,
			Index:  int32(p.Index),
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
			X2:     p.X2,
			Y2:     p.Y2,
			Tier:   optionalString(string(p.Tier)),
			Text:   optionalString(p.Text),
		}
	}
	return rows
}

// WriteBucketsParquet writes buckets to a Parquet file.
func WriteBucketsParquet(buckets []schema.TimeBucket, outputPath string) error {
	return writeRows(ToBucketRows(buckets), outputPath)
}

// WritePrimitivesParquet writes the draw primitives of a frame to a Parquet file.
func WritePrimitivesParquet(frame schema.Frame, outputPath string) error {
	return writeRows(ToPrimitiveRows(frame.Primitives), outputPath)
}

// ReadBucketsParquet reads a bucket fixture from a Parquet file.
func ReadBucketsParquet(inputPath string) ([]schema.TimeBucket, error) {
	rows, err := parquet.ReadFile[BucketRow](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return FromBucketRows(rows), nil
}

func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
