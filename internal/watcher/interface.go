package watcher

import "context"

// Watcher monitors an input directory and hands new files over in batches
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// BatchHandler processes one batch of newly arrived files.
type BatchHandler func(ctx context.Context, paths []string) error
