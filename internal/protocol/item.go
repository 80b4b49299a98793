package protocol

// ItemKind tells a file payload apart from a pasted text payload.
type ItemKind int

const (
	KindFile ItemKind = iota
	KindText
)

// TextIdentifier is the identifier the remote peer reports pasted text under.
const TextIdentifier = "pasted_text"

// EncodedItem is one unit of work in transmissible form.
// For files Data holds the standard base64 encoding of the content; for text it holds the text itself.
type EncodedItem struct {
	Name string   `json:"name"`
	Data string   `json:"data"`
	Mime string   `json:"mime"`
	Size int64    `json:"size"`
	Kind ItemKind `json:"-"`
}

// IsText reports whether the item travels in the text field of a process message.
func (i EncodedItem) IsText() bool {
	return i.Kind == KindText
}
