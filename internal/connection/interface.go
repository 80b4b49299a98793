package connection

import (
	"context"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Manager owns the single duplex connection of a job.
// Inbound traffic is delivered on Events, tagged with the ID of the connection it came from.
type Manager interface {
	// Connect returns the open connection, dialing a new one when none is open.
	Connect(ctx context.Context) (Connection, error)
	// Send fails with ErrNotConnected unless the connection is open.
	Send(msg protocol.ClientMessage) error
	// Close starts a graceful shutdown. Calling it again, or when nothing is open, is a no-op.
	Close(code int, reason string) error
	State() State
	Events() <-chan Event
	// Shutdown releases the transport and stops event delivery for good.
	Shutdown()
}
