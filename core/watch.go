package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/source"
	"github.com/huangsam/timeline/schema"
)

// watchSession re-fetches the source whenever it changes. Each reload starts a
// new loader generation, so a slow fetch that finishes after a newer one is dropped.
type watchSession struct {
	mu     sync.Mutex
	t      *Timeline
	loader *Loader
	cfg    *contract.Config
	render func(schema.Frame) error

	// reloads tracks background reloads; closed rejects new ones once shutdown begins.
	reloads sync.WaitGroup
	spawnMu sync.Mutex
	closed  bool
}

func newWatchSession(cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager, render func(schema.Frame) error) *watchSession {
	loader := NewLoader(src)
	return &watchSession{
		t: NewTimeline(
			WithLoader(loader),
			WithCache(mgr),
			WithGranularity(cfg.Granularity),
			WithMode(cfg.Mode),
			WithZoom(cfg.Zoom),
		),
		loader: loader,
		cfg:    cfg,
		render: render,
	}
}

// reload fetches a new generation and renders it unless it went stale.
func (s *watchSession) reload(ctx context.Context) error {
	gen := s.loader.Begin()
	result, err := s.loader.Fetch(ctx, gen, RequestFromConfig(s.cfg))
	if err != nil {
		if !s.loader.IsCurrent(gen) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return nil
	}
	applied, err := s.t.Apply(gen, result)
	if err != nil || !applied {
		return err
	}
	return s.render(s.t.Frame(s.cfg.Viewport))
}

// spawn runs a reload in the background unless the session is closed.
func (s *watchSession) spawn(ctx context.Context) {
	s.spawnMu.Lock()
	defer s.spawnMu.Unlock()
	if s.closed {
		return
	}
	s.reloads.Add(1)
	go func() {
		defer s.reloads.Done()
		if err := s.reload(ctx); err != nil {
			contract.LogWarn("Cannot reload source", err)
		}
	}()
}

// close rejects new reloads and waits for the running ones to finish.
func (s *watchSession) close() {
	s.spawnMu.Lock()
	s.closed = true
	s.spawnMu.Unlock()
	s.reloads.Wait()
}

// ExecuteWatch renders the source once and again after every change to it,
// until ctx is canceled.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg)

	session := newWatchSession(cfg, src, mgr, func(frame schema.Frame) error {
		return writer.WriteFrame(frame, cfg, 0)
	})
	if err := session.reload(ctx); err != nil {
		return err
	}

	watcher, err := source.NewWatcher(cfg.SourcePath, cfg.Debounce)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	watcher.Watch(func() {
		session.spawn(ctx)
	}, func(err error) {
		contract.LogWarn("Watcher error", err)
	})

	if !shouldSuppressHeader(ctx) {
		fmt.Printf("👀 Watching %s for changes (Ctrl+C to stop)\n", cfg.SourcePath)
	}
	<-ctx.Done()
	_ = watcher.Stop()
	session.close()
	return nil
}
