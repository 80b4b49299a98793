package session

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

func (c *implController) handleEvent(ev connection.Event) {
	st := c.state

	if ev.Kind == connection.EventReady {
		c.logger.Debug(st.ctx, "Connection %d ready", ev.ConnID)
		return
	}

	// events from a connection the current job does not own belong to a reset job
	if st.connID == 0 || ev.ConnID != st.connID {
		if ev.Kind == connection.EventMessage {
			c.metrics.StaleEvent()
			c.logger.Debug(st.ctx, "Discarding stale %s from conn %d", ev.Message.Type, ev.ConnID)
		}
		return
	}

	switch ev.Kind {
	case connection.EventMessage:
		c.applyMessage(st, ev.Message)
	case connection.EventClosed:
		if st.phase != PhaseConnected && st.phase != PhaseCompleting {
			return
		}
		err := ev.Err
		if err == nil {
			err = &connection.ConnectionError{
				Endpoint: st.endpoint,
				Op:       "read",
				Err:      fmt.Errorf("closed by remote: %d %s", ev.Code, ev.Reason),
			}
		}
		c.fail(st, err)
	}
}

func (c *implController) applyMessage(st *sessionState, msg protocol.ServerMessage) {
	if st.phase.Terminal() {
		c.logger.Debug(st.ctx, "Ignoring %s after job %s", msg.Type, st.phase)
		return
	}
	st.lastActivity = time.Now()

	switch msg.Type {
	case protocol.TypeProgress:
		if !st.ledger.ApplyProgress(msg.File, msg.Percent, msg.Status) {
			c.logger.Debug(st.ctx, "Ignoring progress for %s", msg.File)
			return
		}

	case protocol.TypeComplete:
		entry, known := st.ledger.Get(msg.File)
		if !known || entry.Failed() || st.collector.Contains(msg.File) {
			c.logger.Warn(st.ctx, "Ignoring complete for %s", msg.File)
			return
		}
		st.collector.Append(collector.NewResult(msg.File, msg.Content))
		st.ledger.ApplyComplete(msg.File)
		c.logger.Info(st.ctx, "Completed %s (%d/%d)", msg.File, st.collector.Len(), st.expected)

	case protocol.TypeError:
		if !st.ledger.ApplyError(msg.File, msg.Message, msg.Code) {
			c.logger.Warn(st.ctx, "Remote error for unknown item %s: %s", msg.File, msg.Message)
			return
		}
		c.metrics.ItemError(msg.Code)
		c.logger.Warn(st.ctx, "Item %s failed: %s (%s)", msg.File, msg.Message, msg.Code)

	case protocol.TypeDone:
		final, err := st.strategy.OnDone(c.conn)
		if err != nil {
			c.fail(st, fmt.Errorf("submit: %w", err))
			return
		}
		if final {
			c.complete(st)
			return
		}
		if st.strategy.AllSent() {
			st.phase = PhaseCompleting
		}
	}

	c.notify()
}
