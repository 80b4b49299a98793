package protocol

// Message types on the wire.
const (
	TypeStart   = "start"
	TypeProcess = "process"
	TypeEnd     = "end"

	TypeProgress = "progress"
	TypeComplete = "complete"
	TypeError    = "error"
	TypeDone     = "done"
)

// ClientMessage is any frame the client sends.
type ClientMessage interface {
	MessageType() string
}

// StartMessage announces how many items the remote should expect.
type StartMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func (m StartMessage) MessageType() string { return TypeStart }

// ProcessMessage carries exactly one file or one text payload.
// Files is always serialized as an array and Text as null when unused.
type ProcessMessage struct {
	Type  string        `json:"type"`
	Files []EncodedItem `json:"files"`
	Text  *string       `json:"text"`
}

func (m ProcessMessage) MessageType() string { return TypeProcess }

// EndMessage tells the remote no more items follow.
type EndMessage struct {
	Type string `json:"type"`
}

func (m EndMessage) MessageType() string { return TypeEnd }

// NewStart builds a start frame.
func NewStart(count int) StartMessage {
	return StartMessage{Type: TypeStart, Count: count}
}

// NewProcess builds the process frame for a single item.
func NewProcess(item EncodedItem) ProcessMessage {
	if item.IsText() {
		text := item.Data
		return ProcessMessage{Type: TypeProcess, Files: []EncodedItem{}, Text: &text}
	}
	return ProcessMessage{Type: TypeProcess, Files: []EncodedItem{item}}
}

// NewEnd builds an end frame.
func NewEnd() EndMessage {
	return EndMessage{Type: TypeEnd}
}

// ServerMessage is the decoded form of every frame the remote sends.
// Only the fields relevant to Type are populated.
type ServerMessage struct {
	Type    string `json:"type"`
	File    string `json:"file,omitempty"`
	Percent int    `json:"percent,omitempty"`
	Status  string `json:"status,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
