package protocol

import (
	"encoding/json"
	"fmt"
)

// ProtocolError describes an inbound frame that could not be understood.
type ProtocolError struct {
	Reason string
	Raw    []byte
}

func (e *ProtocolError) Error() string {
	const maxRaw = 120
	raw := e.Raw
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return fmt.Sprintf("malformed frame: %s (%q)", e.Reason, raw)
}

// DecodeServerMessage parses a text frame from the remote.
// Percent values outside [0,100] are clamped.
func DecodeServerMessage(raw []byte) (ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ServerMessage{}, &ProtocolError{Reason: err.Error(), Raw: raw}
	}

	switch msg.Type {
	case TypeProgress, TypeComplete, TypeError:
		if msg.File == "" {
			return ServerMessage{}, &ProtocolError{Reason: msg.Type + " without file", Raw: raw}
		}
	case TypeDone:
	case "":
		return ServerMessage{}, &ProtocolError{Reason: "missing type", Raw: raw}
	default:
		return ServerMessage{}, &ProtocolError{Reason: "unknown type " + msg.Type, Raw: raw}
	}

	if msg.Percent < 0 {
		msg.Percent = 0
	}
	if msg.Percent > 100 {
		msg.Percent = 100
	}

	return msg, nil
}
