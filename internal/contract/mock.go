package contract

import (
	"context"
	"time"

	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/mock"
)

// MockBucketSource is a mock implementation of BucketSource for testing.
type MockBucketSource struct {
	mock.Mock
}

var _ BucketSource = &MockBucketSource{} // Compile-time check

// FetchCommitBuckets implements the BucketSource interface.
func (m *MockBucketSource) FetchCommitBuckets(ctx context.Context, granularity schema.Granularity, from, to time.Time, limit int) (schema.BucketsResult, error) {
	args := m.Called(ctx, granularity, from, to, limit)
	result, _ := args.Get(0).(schema.BucketsResult)
	return result, args.Error(1)
}

// MockRangeObserver is a mock implementation of RangeObserver for testing.
type MockRangeObserver struct {
	mock.Mock
}

var _ RangeObserver = &MockRangeObserver{} // Compile-time check

// OnTimeRangeSelect implements the RangeObserver interface.
func (m *MockRangeObserver) OnTimeRangeSelect(from, to time.Time) {
	m.Called(from, to)
}

// MockPointObserver is a mock implementation of PointObserver for testing.
type MockPointObserver struct {
	mock.Mock
}

var _ PointObserver = &MockPointObserver{} // Compile-time check

// OnCommitSelect implements the PointObserver interface.
func (m *MockPointObserver) OnCommitSelect(ts time.Time) {
	m.Called(ts)
}
