package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/timeline/internal/parquet"
	"github.com/huangsam/timeline/schema"
	"gopkg.in/yaml.v3"
)

// readerFunc loads a fixture file into a raw, unfiltered result.
type readerFunc func(path string) (schema.BucketsResult, error)

var readers = map[string]readerFunc{
	".json":    readJSON,
	".yaml":    readYAML,
	".yml":     readYAML,
	".csv":     readCSV,
	".parquet": readParquet,
}

// fixtureDoc is the object form of a json or yaml fixture.
type fixtureDoc struct {
	Buckets     []schema.TimeBucket `json:"buckets" yaml:"buckets"`
	Performance struct {
		QueryTimeMs int `json:"query_time_ms" yaml:"query_time_ms"`
	} `json:"performance" yaml:"performance"`
}

func (d fixtureDoc) result() schema.BucketsResult {
	return schema.BucketsResult{
		Buckets:     d.Buckets,
		Performance: schema.PerformanceStats{QueryTimeMs: d.Performance.QueryTimeMs},
	}
}

// readJSON accepts either a bare array of buckets or a {buckets, performance} object.
func readJSON(path string) (schema.BucketsResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.BucketsResult{}, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var buckets []schema.TimeBucket
		if err := json.Unmarshal(data, &buckets); err != nil {
			return schema.BucketsResult{}, fmt.Errorf("parse json fixture: %w", err)
		}
		return schema.BucketsResult{Buckets: buckets}, nil
	}
	var doc fixtureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return schema.BucketsResult{}, fmt.Errorf("parse json fixture: %w", err)
	}
	return doc.result(), nil
}

// readYAML accepts the same shapes as readJSON.
func readYAML(path string) (schema.BucketsResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.BucketsResult{}, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return schema.BucketsResult{}, fmt.Errorf("parse yaml fixture: %w", err)
	}
	if len(node.Content) == 0 {
		return schema.BucketsResult{}, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var buckets []schema.TimeBucket
		if err := root.Decode(&buckets); err != nil {
			return schema.BucketsResult{}, fmt.Errorf("parse yaml fixture: %w", err)
		}
		return schema.BucketsResult{Buckets: buckets}, nil
	}
	var doc fixtureDoc
	if err := root.Decode(&doc); err != nil {
		return schema.BucketsResult{}, fmt.Errorf("parse yaml fixture: %w", err)
	}
	return doc.result(), nil
}

// readCSV expects a header of bucket_start,commit_count,file_change_count
// with an optional granularity column.
func readCSV(path string) (schema.BucketsResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.BucketsResult{}, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return schema.BucketsResult{}, nil
	}
	if err != nil {
		return schema.BucketsResult{}, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"bucket_start", "commit_count", "file_change_count"} {
		if _, ok := cols[required]; !ok {
			return schema.BucketsResult{}, fmt.Errorf("csv header missing column %q", required)
		}
	}
	granCol, hasGran := cols["granularity"]

	var buckets []schema.TimeBucket
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return schema.BucketsResult{}, fmt.Errorf("read csv line %d: %w", line, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		start, err := parseBucketStart(field(cols["bucket_start"]))
		if err != nil {
			return schema.BucketsResult{}, fmt.Errorf("csv line %d: %w", line, err)
		}
		commits, err := strconv.Atoi(field(cols["commit_count"]))
		if err != nil {
			return schema.BucketsResult{}, fmt.Errorf("csv line %d: invalid commit_count: %w", line, err)
		}
		files, err := strconv.Atoi(field(cols["file_change_count"]))
		if err != nil {
			return schema.BucketsResult{}, fmt.Errorf("csv line %d: invalid file_change_count: %w", line, err)
		}
		b := schema.TimeBucket{BucketStart: start, CommitCount: commits, FileChangeCount: files}
		if hasGran {
			b.Granularity = schema.Granularity(field(granCol))
		}
		buckets = append(buckets, b)
	}
	return schema.BucketsResult{Buckets: buckets}, nil
}

func readParquet(path string) (schema.BucketsResult, error) {
	buckets, err := parquet.ReadBucketsParquet(path)
	if err != nil {
		return schema.BucketsResult{}, err
	}
	return schema.BucketsResult{Buckets: buckets}, nil
}

// parseBucketStart accepts RFC3339 timestamps and plain dates in UTC.
func parseBucketStart(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid bucket_start %q", s)
	}
	return t, nil
}
