package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
)

// fakeManager is an in-memory connection.Manager. Its events channel is unbuffered, so
// push returns only once the session goroutine has taken the event.
type fakeManager struct {
	mu         sync.Mutex
	events     chan connection.Event
	sent       []protocol.ClientMessage
	closes     []string
	connects   int
	connectErr error
	state      connection.State
	nextID     uint64
}

func newFakeManager() *fakeManager {
	return &fakeManager{events: make(chan connection.Event)}
}

func (f *fakeManager) Connect(ctx context.Context) (connection.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connects++
	if f.connectErr != nil {
		return connection.Connection{}, &connection.ConnectionError{Endpoint: "ws://fake", Op: "dial", Err: f.connectErr}
	}
	if f.state != connection.StateOpen {
		f.nextID++
		f.state = connection.StateOpen
	}
	return connection.Connection{ID: f.nextID, Endpoint: "ws://fake"}, nil
}

func (f *fakeManager) Send(msg protocol.ClientMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != connection.StateOpen {
		return connection.ErrNotConnected
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeManager) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == connection.StateOpen {
		f.state = connection.StateClosed
		f.closes = append(f.closes, reason)
	}
	return nil
}

func (f *fakeManager) State() connection.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeManager) Events() <-chan connection.Event { return f.events }

func (f *fakeManager) Shutdown() {}

func (f *fakeManager) connID() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextID
}

func (f *fakeManager) sentTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, m := range f.sent {
		out = append(out, m.MessageType())
	}
	return out
}

func (f *fakeManager) processed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, m := range f.sent {
		if p, ok := m.(protocol.ProcessMessage); ok {
			if p.Text != nil {
				out = append(out, protocol.TextIdentifier)
			} else {
				out = append(out, p.Files[0].Name)
			}
		}
	}
	return out
}

func (f *fakeManager) closeReasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.closes...)
}

func (f *fakeManager) push(t *testing.T, ev connection.Event) {
	t.Helper()
	select {
	case f.events <- ev:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout delivering event")
	}
}

func (f *fakeManager) deliver(t *testing.T, msg protocol.ServerMessage) {
	t.Helper()
	f.push(t, connection.Event{Kind: connection.EventMessage, ConnID: f.connID(), Message: msg})
}

func progress(file string, percent int, status string) protocol.ServerMessage {
	return protocol.ServerMessage{Type: protocol.TypeProgress, File: file, Percent: percent, Status: status}
}

func complete(file, content string) protocol.ServerMessage {
	return protocol.ServerMessage{Type: protocol.TypeComplete, File: file, Content: content}
}

func itemError(file, message string) protocol.ServerMessage {
	return protocol.ServerMessage{Type: protocol.TypeError, File: file, Message: message, Code: "TRANSCRIPTION_FAILED"}
}

func done() protocol.ServerMessage {
	return protocol.ServerMessage{Type: protocol.TypeDone}
}

func newTestController(t *testing.T, mode strategy.Mode, conn connection.Manager, mutate ...func(*Options)) Controller {
	t.Helper()

	opts := Options{Mode: mode}
	for _, m := range mutate {
		m(&opts)
	}
	c := New(opts, encoder.New(2, logger.NewNop()), conn, logger.NewNop(), nil)
	t.Cleanup(c.Close)
	return c
}

func audioFiles(t *testing.T, names ...string) []encoder.Source {
	t.Helper()

	dir := t.TempDir()
	var srcs []encoder.Source
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("audio:"+name), 0o644))
		srcs = append(srcs, encoder.FileSource(path))
	}
	return srcs
}

func waitOutcome(t *testing.T, c Controller) (Outcome, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := c.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("Timeout waiting for job outcome")
	}
	return out, err
}
