package session

import (
	"context"

	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
)

// Controller drives one job at a time through submit, track and collect.
//
// All job state is owned by a single goroutine; the methods below hand work to it
// and never share state with the caller.
type Controller interface {
	// Submit encodes srcs, opens the connection and lets the strategy start sending.
	// It returns once the first frames are on the wire. Only valid from the idle phase.
	Submit(ctx context.Context, srcs []encoder.Source) error
	// Wait blocks until the current job is done, failed or reset.
	Wait(ctx context.Context) (Outcome, error)
	// Run is Submit followed by Wait. Cancelling ctx while waiting resets the session.
	Run(ctx context.Context, srcs []encoder.Source) (Outcome, error)
	// Reset abandons the current job from any phase and returns to idle.
	Reset()
	Snapshot() Snapshot
	// Close resets the session and stops it for good.
	Close()
}
