package geom

import (
	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/core/algo"
	"github.com/huangsam/timeline/schema"
)

// Series bundles the per-render quantities needed for bar heights.
type Series struct {
	Buckets    []schema.TimeBucket
	Aggregate  schema.CumulativeAggregate
	Scores     []float64
	MaxCommits int
}

// NewSeries computes the aggregate, the complexity scores and the max commit
// count for a bucket sequence in one pass each.
func NewSeries(buckets []schema.TimeBucket) Series {
	aggregate := agg.Aggregate(buckets)
	return Series{
		Buckets:    buckets,
		Aggregate:  aggregate,
		Scores:     algo.Scores(aggregate),
		MaxCommits: agg.MaxCommitCount(buckets),
	}
}

// Len returns the number of buckets in the series.
func (s Series) Len() int {
	return len(s.Buckets)
}

// BarHeight returns the bar height at index for the given mode. Complexity
// bars scale the score to the chart height; raw bars scale the commit count
// against the largest bucket, yielding 0 when every count is zero.
func BarHeight(mode schema.BarMode, index int, series Series, chartHeight float64) (float64, error) {
	if index < 0 || index >= series.Len() {
		return 0, &schema.IndexError{Index: index, Len: series.Len()}
	}
	if chartHeight <= 0 {
		return 0, nil
	}

	switch mode {
	case schema.RawBars:
		if series.MaxCommits <= 0 {
			return 0, nil
		}
		return float64(series.Buckets[index].CommitCount) / float64(series.MaxCommits) * chartHeight, nil
	default:
		if index >= len(series.Scores) {
			return 0, &schema.IndexError{Index: index, Len: len(series.Scores)}
		}
		return series.Scores[index] / 100 * chartHeight, nil
	}
}
