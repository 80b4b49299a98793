package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/metrics"
	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

type implManager struct {
	opts    Options
	logger  logger.Logger
	metrics *metrics.Metrics
	dialer  *websocket.Dialer

	events   chan Event
	quit     chan struct{}
	quitOnce sync.Once

	// dialMu serializes Connect so concurrent callers share one connection
	dialMu sync.Mutex

	mu        sync.Mutex
	state     State
	current   *liveConn
	nextID    uint64
	abortDial bool
}

type liveConn struct {
	id      uint64
	ws      *websocket.Conn
	writeMu sync.Mutex

	releaseOnce sync.Once

	// set under implManager.mu when the close was requested locally
	localClose  bool
	localCode   int
	localReason string
}

func (c *liveConn) release() {
	c.releaseOnce.Do(func() {
		_ = c.ws.Close()
	})
}

func (m *implManager) Connect(ctx context.Context) (Connection, error) {
	m.dialMu.Lock()
	defer m.dialMu.Unlock()

	select {
	case <-m.quit:
		return Connection{}, &ConnectionError{Endpoint: m.opts.Endpoint, Op: "dial", Err: ErrNotConnected}
	default:
	}

	m.mu.Lock()
	if m.state == StateOpen && m.current != nil {
		conn := Connection{ID: m.current.id, Endpoint: m.opts.Endpoint}
		m.mu.Unlock()
		return conn, nil
	}
	if old := m.current; old != nil {
		// still draining a previous close; drop it so only one transport is live
		m.current = nil
		old.release()
	}
	m.nextID++
	id := m.nextID
	m.state = StateConnecting
	m.abortDial = false
	m.mu.Unlock()

	m.logger.Info(ctx, "Connecting: %s", m.opts.Endpoint)

	ws, _, err := m.dialer.DialContext(ctx, m.opts.Endpoint, m.opts.Header)

	m.mu.Lock()
	if err != nil {
		m.state = StateClosed
		m.mu.Unlock()
		m.metrics.ConnectionAttempt(false)
		m.logger.Error(ctx, "Connection failed: %v", err)
		return Connection{}, &ConnectionError{Endpoint: m.opts.Endpoint, Op: "dial", Err: err}
	}
	if m.abortDial {
		m.state = StateClosed
		m.mu.Unlock()
		_ = ws.Close()
		m.metrics.ConnectionAttempt(false)
		return Connection{}, &ConnectionError{Endpoint: m.opts.Endpoint, Op: "dial", Err: ErrAborted}
	}
	lc := &liveConn{id: id, ws: ws}
	m.current = lc
	m.state = StateOpen
	m.mu.Unlock()

	m.metrics.ConnectionAttempt(true)
	m.logger.Info(ctx, "Connected (conn %d)", id)

	m.emit(Event{Kind: EventReady, ConnID: id})
	go m.readLoop(lc)

	return Connection{ID: id, Endpoint: m.opts.Endpoint}, nil
}

func (m *implManager) Send(msg protocol.ClientMessage) error {
	m.mu.Lock()
	lc, state := m.current, m.state
	m.mu.Unlock()

	if state != StateOpen || lc == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.MessageType(), err)
	}

	lc.writeMu.Lock()
	if m.opts.WriteTimeout > 0 {
		_ = lc.ws.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
	}
	err = lc.ws.WriteMessage(websocket.TextMessage, data)
	lc.writeMu.Unlock()

	if err != nil {
		return &ConnectionError{Endpoint: m.opts.Endpoint, Op: "send", Err: err}
	}

	m.metrics.MessageSent(msg.MessageType())
	m.logger.Debug(context.Background(), "Sent %s (%d bytes, conn %d)", msg.MessageType(), len(data), lc.id)
	return nil
}

func (m *implManager) Close(code int, reason string) error {
	m.mu.Lock()
	switch m.state {
	case StateConnecting:
		m.abortDial = true
		m.mu.Unlock()
		return nil
	case StateOpen:
	default:
		m.mu.Unlock()
		return nil
	}

	lc := m.current
	lc.localClose = true
	lc.localCode = code
	lc.localReason = reason
	m.state = StateClosing
	m.mu.Unlock()

	m.logger.Info(context.Background(), "Closing conn %d: %d %s", lc.id, code, reason)

	lc.writeMu.Lock()
	err := lc.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second),
	)
	lc.writeMu.Unlock()

	if err != nil {
		// the transport is already gone; the read loop finishes the transition
		lc.release()
		return nil
	}

	// the read loop exits on the remote close frame or when the grace period runs out
	_ = lc.ws.SetReadDeadline(time.Now().Add(m.opts.CloseGrace))
	return nil
}

func (m *implManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *implManager) Events() <-chan Event {
	return m.events
}

func (m *implManager) Shutdown() {
	m.quitOnce.Do(func() {
		close(m.quit)
	})

	m.mu.Lock()
	lc := m.current
	if m.state == StateConnecting {
		m.abortDial = true
	}
	m.mu.Unlock()

	if lc != nil {
		lc.release()
	}
}

func (m *implManager) emit(ev Event) {
	select {
	case m.events <- ev:
	case <-m.quit:
	}
}

func (m *implManager) readLoop(lc *liveConn) {
	ctx := context.Background()

	var readErr error
	for {
		mt, data, err := lc.ws.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		if mt != websocket.TextMessage {
			m.logger.Debug(ctx, "Ignoring non-text frame on conn %d", lc.id)
			continue
		}

		msg, err := protocol.DecodeServerMessage(data)
		if err != nil {
			m.metrics.MalformedFrame()
			m.logger.Warn(ctx, "Dropping frame on conn %d: %v", lc.id, err)
			continue
		}

		m.metrics.MessageReceived(msg.Type)
		m.logger.Debug(ctx, "Received %s %s (conn %d)", msg.Type, msg.File, lc.id)
		m.emit(Event{Kind: EventMessage, ConnID: lc.id, Message: msg})
	}

	lc.release()
	m.emit(m.finish(lc, readErr))
}

// finish moves the manager to Closed if lc is still current and builds the closed event.
func (m *implManager) finish(lc *liveConn, readErr error) Event {
	m.mu.Lock()
	if m.current == lc {
		m.current = nil
		m.state = StateClosed
	}
	local, code, reason := lc.localClose, lc.localCode, lc.localReason
	m.mu.Unlock()

	ev := Event{Kind: EventClosed, ConnID: lc.id}

	var ce *websocket.CloseError
	switch {
	case local:
		ev.Code, ev.Reason = code, reason
	case errors.As(readErr, &ce):
		ev.Code, ev.Reason = ce.Code, ce.Text
		if ce.Code == websocket.CloseAbnormalClosure {
			ev.Err = &ConnectionError{Endpoint: m.opts.Endpoint, Op: "read", Err: readErr}
		}
	default:
		ev.Code = websocket.CloseAbnormalClosure
		ev.Err = &ConnectionError{Endpoint: m.opts.Endpoint, Op: "read", Err: readErr}
	}

	m.logger.Info(context.Background(), "Closed conn %d: %d %s", lc.id, ev.Code, ev.Reason)
	return ev
}
