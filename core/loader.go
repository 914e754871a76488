package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// FetchRequest is the set of parameters passed to a BucketSource.
type FetchRequest struct {
	Granularity schema.Granularity
	From        time.Time
	To          time.Time
	Limit       int
}

// RequestFromConfig derives a fetch request from the validated config.
func RequestFromConfig(cfg *contract.Config) FetchRequest {
	return FetchRequest{
		Granularity: cfg.Granularity,
		From:        cfg.StartTime,
		To:          cfg.EndTime,
		Limit:       cfg.Limit,
	}
}

// Loader wraps a BucketSource with a generation counter. Every Begin supersedes
// the previous request so that results from older generations can be dropped.
// It is safe for concurrent use.
type Loader struct {
	source contract.BucketSource
	latest atomic.Uint64

	mu    sync.Mutex
	state schema.LoadState
	err   error
}

// NewLoader creates an idle loader.
func NewLoader(source contract.BucketSource) *Loader {
	return &Loader{source: source, state: schema.IdleState}
}

// Begin starts a new generation and moves the loader to the loading state.
func (l *Loader) Begin() uint64 {
	gen := l.latest.Add(1)
	l.mu.Lock()
	l.state, l.err = schema.LoadingState, nil
	l.mu.Unlock()
	return gen
}

// Latest returns the most recently requested generation.
func (l *Loader) Latest() uint64 {
	return l.latest.Load()
}

// IsCurrent reports whether gen is the most recently requested generation.
func (l *Loader) IsCurrent(gen uint64) bool {
	return gen == l.latest.Load()
}

// Fetch calls the source for generation gen. Source failures are returned as
// *schema.FetchError; the error state is only recorded while gen is current.
// No retries are attempted.
func (l *Loader) Fetch(ctx context.Context, gen uint64, req FetchRequest) (schema.BucketsResult, error) {
	start := time.Now()
	result, err := l.source.FetchCommitBuckets(ctx, req.Granularity, req.From, req.To, req.Limit)
	if err != nil {
		var fetchErr *schema.FetchError
		if !errors.As(err, &fetchErr) {
			err = &schema.FetchError{Granularity: req.Granularity, Err: err}
		}
		l.finish(gen, schema.ErrorState, err)
		return schema.BucketsResult{}, err
	}
	if result.Performance.QueryTimeMs == 0 {
		result.Performance.QueryTimeMs = int(time.Since(start).Milliseconds())
	}
	l.finish(gen, schema.ReadyState, nil)
	return result, nil
}

// Load is Begin followed by Fetch.
func (l *Loader) Load(ctx context.Context, req FetchRequest) (uint64, schema.BucketsResult, error) {
	gen := l.Begin()
	result, err := l.Fetch(ctx, gen, req)
	return gen, result, err
}

// State returns the observable state and the last error, if any.
func (l *Loader) State() (schema.LoadState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.err
}

func (l *Loader) finish(gen uint64, state schema.LoadState, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.IsCurrent(gen) {
		return
	}
	l.state, l.err = state, err
}
