// Package algo has the complexity estimator and ranking helpers for buckets.
package algo

import (
	"math"

	"github.com/huangsam/timeline/schema"
)

// Weights of the complexity curve. The score is an activity proxy for
// visualization, not a structural complexity measurement.
const (
	commitWeight     = 0.1
	fileChangeWeight = 0.05
	maxComplexity    = 100.0
)

// Tier thresholds on intensity (complexity / 100).
const (
	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// Estimate returns min(100, sqrt(commits*0.1 + fileChanges*0.05)) for the
// cumulative totals at index. Out-of-range indices return ErrIndexOutOfRange.
func Estimate(agg schema.CumulativeAggregate, index int) (float64, error) {
	if index < 0 || index >= agg.Len() || index >= len(agg.FileChanges) {
		return 0, &schema.IndexError{Index: index, Len: agg.Len()}
	}
	return complexity(agg.Commits[index], agg.FileChanges[index]), nil
}

func complexity(commits, fileChanges int) float64 {
	raw := float64(commits)*commitWeight + float64(fileChanges)*fileChangeWeight
	if raw <= 0 {
		return 0
	}
	return math.Min(maxComplexity, math.Sqrt(raw))
}

// Scores computes the complexity for every index of the aggregate.
func Scores(agg schema.CumulativeAggregate) []float64 {
	scores := make([]float64, agg.Len())
	for i := range scores {
		scores[i] = complexity(agg.Commits[i], agg.FileChanges[i])
	}
	return scores
}

// Intensity normalizes a complexity score to [0, 1].
func Intensity(score float64) float64 {
	return math.Max(0, math.Min(1, score/maxComplexity))
}

// TierFor bands an intensity into a symbolic color tier.
func TierFor(intensity float64) schema.Tier {
	switch {
	case intensity > highThreshold:
		return schema.HighTier
	case intensity > mediumThreshold:
		return schema.MediumTier
	default:
		return schema.LowTier
	}
}
