package collector

type implCollector struct {
	pending   []ResultItem
	sources   map[string]struct{}
	finalized []ResultItem
	done      bool
}

// New creates an empty Collector
func New() Collector {
	return &implCollector{sources: make(map[string]struct{})}
}
