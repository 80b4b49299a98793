package connection

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Close codes and reasons used by the client.
const (
	CloseNormal = 1000

	ReasonComplete = "Complete"
	ReasonReset    = "Reset"
	ReasonFailed   = "Failed"
)

// State of the managed connection.
type State int

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// EventKind distinguishes the three observable connection events.
type EventKind int

const (
	EventReady EventKind = iota + 1
	EventMessage
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventMessage:
		return "message"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is delivered for every ready, message and closed transition.
type Event struct {
	Kind    EventKind
	ConnID  uint64
	Message protocol.ServerMessage
	Code    int
	Reason  string
	// Err is set when the connection ended without a close handshake.
	Err error
}

// Connection identifies one physical connection.
type Connection struct {
	ID       uint64
	Endpoint string
}

var (
	ErrNotConnected = errors.New("connection not open")
	// ErrAborted is returned by Connect when Close was requested while dialing.
	ErrAborted = errors.New("connection closed while dialing")
)

// ConnectionError reports a transport-level failure.
type ConnectionError struct {
	Endpoint string
	Op       string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
