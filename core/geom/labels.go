package geom

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/timeline/schema"
)

// maxLabels bounds how many axis labels a chart carries.
const maxLabels = 10

// IndexedLabel is an axis label attached to a bucket index.
type IndexedLabel struct {
	Index int
	Text  string
}

// Label formats a bucket start: "M/D" for days, "Week N" for weeks where N is
// the week of the month.
func Label(ts time.Time, granularity schema.Granularity) string {
	if granularity == schema.WeekGranularity {
		return fmt.Sprintf("Week %d", int(math.Ceil(float64(ts.Day())/7)))
	}
	return fmt.Sprintf("%d/%d", int(ts.Month()), ts.Day())
}

// LabelStride returns max(1, n/10).
func LabelStride(n int) int {
	return max(1, n/maxLabels)
}

// Labels returns the labels for indices on the stride.
func Labels(buckets []schema.TimeBucket, granularity schema.Granularity) []IndexedLabel {
	stride := LabelStride(len(buckets))
	labels := make([]IndexedLabel, 0, len(buckets)/stride+1)
	for i := 0; i < len(buckets); i += stride {
		labels = append(labels, IndexedLabel{Index: i, Text: Label(buckets[i].BucketStart, granularity)})
	}
	return labels
}
