package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/smelt-client/internal/logger"
)

// Options controls how arrivals are grouped into batches.
type Options struct {
	Dir string
	// BatchWindow is how long the first file of a batch waits for company.
	BatchWindow time.Duration
	// SettleDelay gives writers time to finish before a batch is handled.
	SettleDelay   time.Duration
	MaxBatchSize  int
	MaxConcurrent int
	// Accept filters the files that are batched. Nil accepts everything.
	Accept func(path string) bool
}

// New creates a Watcher on opts.Dir with concurrency control
func New(opts Options, handler BatchHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 10
	}
	if opts.BatchWindow <= 0 {
		opts.BatchWindow = 2 * time.Second
	}
	if opts.Accept == nil {
		opts.Accept = func(string) bool { return true }
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &implWatcher{
		opts:      opts,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		semaphore: make(chan struct{}, opts.MaxConcurrent),
		seen:      make(map[string]struct{}),
	}, nil
}
