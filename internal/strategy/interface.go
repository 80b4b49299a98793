package strategy

import (
	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Sender hands a frame to the open connection
type Sender interface {
	Send(msg protocol.ClientMessage) error
}

// Strategy decides when each encoded item is transmitted and when the job is complete.
// Every item is transmitted exactly once.
type Strategy interface {
	Mode() Mode
	// Begin sends whatever the policy transmits before the first done signal.
	Begin(s Sender) error
	// OnDone handles a done signal from the remote and reports whether the job is complete.
	OnDone(s Sender) (bool, error)
	// AllSent reports whether every item has been handed to the connection.
	AllSent() bool
	Job() Job
}
