package collector

// Collector accumulates completed results in arrival order
type Collector interface {
	Append(result ResultItem)
	Contains(sourceIdentifier string) bool
	// Finalize publishes a stable snapshot of everything appended so far.
	Finalize() []ResultItem
	// Results returns the finalized snapshot, or false before Finalize.
	Results() ([]ResultItem, bool)
	Len() int
	Clear()
}
