package control

import "time"

// BucketTimes is the read-only view of a bucket snapshot the controllers need.
type BucketTimes interface {
	Len() int
	Timestamp(i int) (time.Time, error)
}
