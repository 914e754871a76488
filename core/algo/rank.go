package algo

import (
	"sort"

	"github.com/huangsam/timeline/schema"
)

// RankedBucket pairs a bucket with its position in the source sequence.
type RankedBucket struct {
	Index  int
	Bucket schema.TimeBucket
}

// RankBuckets sorts buckets by commit count in descending order and returns
// the top 'limit' entries. Ties keep the earlier bucket first. The input is
// not reordered. If limit is greater than the number of buckets, all buckets
// are returned in sorted order.
func RankBuckets(buckets []schema.TimeBucket, limit int) []RankedBucket {
	ranked := make([]RankedBucket, len(buckets))
	for i, b := range buckets {
		ranked[i] = RankedBucket{Index: i, Bucket: b}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Bucket.CommitCount > ranked[j].Bucket.CommitCount
	})
	if limit >= 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
