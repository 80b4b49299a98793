package session

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
	"github.com/nguyentantai21042004/smelt-client/internal/ledger"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
)

// Phase of the current job.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseConnected
	PhaseCompleting
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseConnected:
		return "connected"
	case PhaseCompleting:
		return "completing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition happens without a reset.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	Generation uint64
	JobID      string
	Phase      Phase
	Mode       strategy.Mode
	Expected   int
	Submitted  int
	Progress   []ledger.Entry
	// Results is only populated once the job is done.
	Results      []collector.ResultItem
	Err          error
	ErrorMessage string
}

// Outcome is what a finished job leaves behind.
type Outcome struct {
	JobID    string
	Results  []collector.ResultItem
	Progress []ledger.Entry
}

// sessionState belongs to exactly one generation and is replaced wholesale on reset.
type sessionState struct {
	generation uint64
	jobID      string
	ctx        context.Context
	phase      Phase
	mode       strategy.Mode
	expected   int

	strategy  strategy.Strategy
	ledger    ledger.Ledger
	collector collector.Collector

	connID   uint64
	endpoint string

	startedAt    time.Time
	lastActivity time.Time
	itemTimer    *time.Timer

	err     error
	outcome Outcome
	// closed once the job is terminal or reset; nil for idle states
	done chan struct{}
}

func (s *sessionState) snapshot() Snapshot {
	snap := Snapshot{
		Generation:   s.generation,
		JobID:        s.jobID,
		Phase:        s.phase,
		Mode:         s.mode,
		Expected:     s.expected,
		Progress:     s.ledger.Entries(),
		Err:          s.err,
		ErrorMessage: UserMessage(s.err),
	}
	if s.strategy != nil {
		snap.Submitted = s.strategy.Job().SubmittedCount
	}
	if results, ok := s.collector.Results(); ok && s.phase == PhaseDone {
		snap.Results = results
	}
	return snap
}
