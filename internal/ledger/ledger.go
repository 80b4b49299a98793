package ledger

const (
	StatusQueued = "QUEUED"
	StatusDone   = "DONE"
)

// Entry is the progress of one item.
type Entry struct {
	Identifier   string
	Percent      int
	Status       string
	ErrorMessage string
	ErrorCode    string
}

// Failed reports whether the remote reported an error for the item.
func (e Entry) Failed() bool {
	return e.ErrorMessage != ""
}

func (l *implLedger) Initialize(identifiers []string) {
	l.entries = make([]Entry, 0, len(identifiers))
	l.index = make(map[string]int, len(identifiers))

	for _, id := range identifiers {
		if _, dup := l.index[id]; dup {
			continue
		}
		l.index[id] = len(l.entries)
		l.entries = append(l.entries, Entry{Identifier: id, Percent: 0, Status: StatusQueued})
	}
}

// ApplyProgress leaves failed entries untouched: an error is terminal for its item.
func (l *implLedger) ApplyProgress(identifier string, percent int, status string) bool {
	i, ok := l.index[identifier]
	if !ok || l.entries[i].Failed() {
		return false
	}
	l.entries[i].Percent = percent
	l.entries[i].Status = status
	return true
}

func (l *implLedger) ApplyComplete(identifier string) bool {
	return l.ApplyProgress(identifier, 100, StatusDone)
}

// ApplyError keeps percent and status at their last values.
func (l *implLedger) ApplyError(identifier, message, code string) bool {
	i, ok := l.index[identifier]
	if !ok {
		return false
	}
	if message == "" {
		message = "UNKNOWN ERROR"
	}
	l.entries[i].ErrorMessage = message
	l.entries[i].ErrorCode = code
	return true
}

func (l *implLedger) Get(identifier string) (Entry, bool) {
	i, ok := l.index[identifier]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

func (l *implLedger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *implLedger) Len() int {
	return len(l.entries)
}

func (l *implLedger) Clear() {
	l.entries = nil
	l.index = make(map[string]int)
}
