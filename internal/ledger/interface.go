package ledger

// Ledger tracks the live status of every item in a job.
// Entry order is fixed by Initialize and never changes afterwards.
type Ledger interface {
	Initialize(identifiers []string)
	// ApplyProgress, ApplyComplete and ApplyError report whether an entry changed.
	// Unknown identifiers are ignored.
	ApplyProgress(identifier string, percent int, status string) bool
	ApplyComplete(identifier string) bool
	ApplyError(identifier, message, code string) bool
	Get(identifier string) (Entry, bool)
	Entries() []Entry
	Len() int
	Clear()
}
