package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/smelt-client/internal/logger"
)

type implWatcher struct {
	opts      Options
	handler   BatchHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup

	// owned by Start
	pending []string

	mu sync.Mutex
	// files queued or in flight
	seen map[string]struct{}
}

// Start monitors the input directory until ctx is cancelled. Files already present are
// treated as if they had just arrived.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d, batch window: %s). Monitoring: %s",
		w.opts.MaxConcurrent, w.opts.BatchWindow, w.opts.Dir)

	if err := w.scanExisting(ctx); err != nil {
		w.logger.Warn(ctx, "Failed to scan %s: %v", w.opts.Dir, err)
	}

	var timer *time.Timer
	var flush <-chan time.Time
	if len(w.pending) > 0 {
		timer = time.NewTimer(w.opts.BatchWindow)
		flush = timer.C
	}
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			flush = nil
		}
	}

	// in-flight batches finish before Start returns
	shutdown := func() error {
		stopTimer()
		w.logger.Info(ctx, "Waiting for ongoing batches to complete...")
		w.wg.Wait()
		w.logger.Info(ctx, "File watcher stopped")
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return shutdown()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.add(ctx, event.Name) {
				continue
			}

			if len(w.pending) >= w.opts.MaxBatchSize {
				stopTimer()
				if err := w.dispatch(ctx); err != nil {
					return shutdown()
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.BatchWindow)
				flush = timer.C
			}

		case <-flush:
			timer = nil
			flush = nil
			if err := w.dispatch(ctx); err != nil {
				return shutdown()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		w.add(ctx, filepath.Join(w.opts.Dir, name))
	}
	return nil
}

// add queues path for the next batch and reports whether it was new.
func (w *implWatcher) add(ctx context.Context, path string) bool {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return false
	}
	if !w.opts.Accept(path) {
		w.logger.Debug(ctx, "Ignoring unsupported file: %s", path)
		return false
	}

	w.mu.Lock()
	_, dup := w.seen[path]
	if !dup {
		w.seen[path] = struct{}{}
	}
	w.mu.Unlock()
	if dup {
		return false
	}

	w.pending = append(w.pending, path)
	w.logger.Info(ctx, "New input detected: %s", path)
	return true
}

// dispatch hands the pending batch to the handler, blocking while max concurrent batches run.
func (w *implWatcher) dispatch(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	batch := w.pending
	w.pending = nil

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.forget(batch)

		if w.opts.SettleDelay > 0 {
			select {
			case <-time.After(w.opts.SettleDelay):
			case <-ctx.Done():
				return
			}
		}

		w.logger.Info(ctx, "Handling batch of %d files", len(batch))
		if err := w.handler(ctx, batch); err != nil {
			w.logger.Error(ctx, "Failed to process batch %v: %v", batch, err)
		}
	}()
	return nil
}

// forget lets a path be picked up again once its batch is finished.
func (w *implWatcher) forget(batch []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range batch {
		delete(w.seen, path)
	}
}
