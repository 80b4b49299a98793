package ledger

type implLedger struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty Ledger
func New() Ledger {
	return &implLedger{index: make(map[string]int)}
}
