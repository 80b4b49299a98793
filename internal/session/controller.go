package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
)

func (c *implController) Submit(ctx context.Context, srcs []encoder.Source) error {
	if len(srcs) == 0 {
		return ErrEmptyBatch
	}

	ids := make([]string, 0, len(srcs))
	seen := make(map[string]struct{}, len(srcs))
	for _, src := range srcs {
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, src.Name)
		}
		seen[src.Name] = struct{}{}
		ids = append(ids, src.Name)
	}

	var gen uint64
	var jobID string
	var err error
	if !c.do(func() {
		if c.state.phase != PhaseIdle {
			err = ErrBusy
			return
		}
		st := c.beginJob(ids)
		gen, jobID = st.generation, st.jobID
	}) {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	jobCtx := logger.WithJobID(ctx, jobID)

	c.logger.Info(jobCtx, "Encoding %d items", len(srcs))
	items, err := c.encoder.EncodeAll(ctx, srcs)
	if err != nil {
		return c.failGeneration(gen, err)
	}

	dialCtx := ctx
	if c.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.opts.ConnectTimeout)
		defer cancel()
	}

	conn, err := c.conn.Connect(dialCtx)
	if err != nil {
		return c.failGeneration(gen, err)
	}

	if !c.do(func() { err = c.launch(gen, conn, items) }) {
		return ErrClosed
	}
	return err
}

// Wait blocks until the current job settles. Only outcome and err are read off the
// session goroutine, and only after done is closed.
func (c *implController) Wait(ctx context.Context) (Outcome, error) {
	var st *sessionState
	var idle bool
	if !c.do(func() {
		st = c.state
		idle = st.phase == PhaseIdle
	}) {
		return Outcome{}, ErrClosed
	}
	if idle {
		return Outcome{}, ErrNoJob
	}

	select {
	case <-st.done:
		return st.outcome, st.err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (c *implController) Run(ctx context.Context, srcs []encoder.Source) (Outcome, error) {
	if err := c.Submit(ctx, srcs); err != nil {
		return Outcome{}, err
	}

	out, err := c.Wait(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		c.Reset()
	}
	return out, err
}

func (c *implController) Reset() {
	c.do(func() {
		st := c.state
		if st.phase != PhaseIdle {
			c.logger.Info(st.ctx, "Reset from %s", st.phase)
			c.stopTimer(st)
			_ = c.conn.Close(connection.CloseNormal, connection.ReasonReset)

			if !st.phase.Terminal() {
				st.err = ErrReset
				st.outcome = Outcome{JobID: st.jobID}
				c.metrics.JobFinished(string(st.mode), "reset", time.Since(st.startedAt))
				close(st.done)
			}
		}

		st.ledger.Clear()
		st.collector.Clear()
		c.state = c.idleState()
		c.notify()
	})
}

func (c *implController) Snapshot() Snapshot {
	var snap Snapshot
	c.do(func() { snap = c.state.snapshot() })
	return snap
}

func (c *implController) Close() {
	c.closeOnce.Do(func() {
		c.Reset()
		close(c.quit)
		<-c.stopped
		c.conn.Shutdown()
	})
}

func (c *implController) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.quit:
			return
		case fn := <-c.cmds:
			fn()
		case ev := <-c.conn.Events():
			c.handleEvent(ev)
		}
	}
}

// do runs fn on the session goroutine and waits for it. It must not be called from that goroutine.
func (c *implController) do(fn func()) bool {
	done := make(chan struct{})
	select {
	case c.cmds <- func() {
		defer close(done)
		fn()
	}:
	case <-c.quit:
		return false
	}
	<-done
	return true
}

// post queues fn without waiting for it.
func (c *implController) post(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.quit:
	}
}

func (c *implController) beginJob(ids []string) *sessionState {
	st := c.state
	st.jobID = uuid.NewString()
	st.ctx = logger.WithJobID(context.Background(), st.jobID)
	st.phase = PhaseSubmitting
	st.expected = len(ids)
	st.startedAt = time.Now()
	st.done = make(chan struct{})
	st.ledger.Initialize(ids)

	c.logger.Info(st.ctx, "Job started: %d items, %s mode", len(ids), st.mode)
	c.notify()
	return st
}

// launch hands the encoded items to the strategy once the connection is open.
func (c *implController) launch(gen uint64, conn connection.Connection, items []protocol.EncodedItem) error {
	st := c.state
	if st.generation != gen || st.phase != PhaseSubmitting {
		// reset while dialing: nobody owns this connection any more
		if st.phase == PhaseIdle {
			_ = c.conn.Close(connection.CloseNormal, connection.ReasonReset)
		}
		return ErrReset
	}

	strat, err := strategy.New(st.mode, items)
	if err != nil {
		c.fail(st, err)
		return err
	}

	st.strategy = strat
	st.connID = conn.ID
	st.endpoint = conn.Endpoint
	st.phase = PhaseConnected
	st.lastActivity = time.Now()
	c.logger.Info(st.ctx, "Connected to %s (conn %d), sending %d items", conn.Endpoint, conn.ID, len(items))

	if err := strat.Begin(c.conn); err != nil {
		c.fail(st, fmt.Errorf("submit: %w", err))
		return st.err
	}
	if strat.AllSent() {
		st.phase = PhaseCompleting
	}

	c.armTimer(st)
	c.notify()
	return nil
}

// failGeneration fails the job of generation gen unless it was reset in the meantime.
func (c *implController) failGeneration(gen uint64, err error) error {
	applied := false
	ok := c.do(func() {
		st := c.state
		if st.generation != gen || st.phase == PhaseIdle || st.phase.Terminal() {
			return
		}
		c.fail(st, err)
		applied = true
	})
	if !ok {
		return ErrClosed
	}
	if !applied {
		return ErrReset
	}
	return err
}

// fail moves st to Failed. Partial results are discarded.
func (c *implController) fail(st *sessionState, err error) {
	st.phase = PhaseFailed
	st.err = err
	c.stopTimer(st)
	st.collector.Clear()

	c.logger.Error(st.ctx, "Job failed: %v", err)
	if st.connID != 0 {
		_ = c.conn.Close(connection.CloseNormal, connection.ReasonFailed)
	}

	st.outcome = Outcome{JobID: st.jobID, Progress: st.ledger.Entries()}
	c.metrics.JobFinished(string(st.mode), "failed", time.Since(st.startedAt))
	close(st.done)
	c.notify()
}

// complete finalizes results after the terminal done signal.
func (c *implController) complete(st *sessionState) {
	results := st.collector.Finalize()
	st.phase = PhaseDone
	c.stopTimer(st)

	c.logger.Info(st.ctx, "Job done: %d/%d results in %s", len(results), st.expected, time.Since(st.startedAt).Round(time.Millisecond))
	_ = c.conn.Close(connection.CloseNormal, connection.ReasonComplete)

	st.outcome = Outcome{JobID: st.jobID, Results: results, Progress: st.ledger.Entries()}
	c.metrics.JobFinished(string(st.mode), "done", time.Since(st.startedAt))
	close(st.done)
	c.notify()
}

func (c *implController) notify() {
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.state.snapshot())
	}
}

func (c *implController) armTimer(st *sessionState) {
	timeout := c.opts.ItemTimeout
	if timeout <= 0 || st.phase.Terminal() {
		return
	}

	var check func()
	check = func() {
		c.post(func() {
			if c.state != st || st.phase.Terminal() {
				return
			}
			if idle := time.Since(st.lastActivity); idle < timeout {
				st.itemTimer = time.AfterFunc(timeout-idle, check)
				return
			}
			c.fail(st, fmt.Errorf("%w for %s", ErrItemTimeout, timeout))
		})
	}
	st.itemTimer = time.AfterFunc(timeout, check)
}

func (c *implController) stopTimer(st *sessionState) {
	if st.itemTimer != nil {
		st.itemTimer.Stop()
		st.itemTimer = nil
	}
}
