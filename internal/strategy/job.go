package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Mode names a submission policy.
type Mode string

const (
	ModeBulk       Mode = "bulk"
	ModeSequential Mode = "sequential"
)

// ErrOverSubmit is returned when a policy tries to send more items than the job holds.
var ErrOverSubmit = errors.New("all items already submitted")

// ParseMode accepts "bulk" or "sequential", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBulk:
		return ModeBulk, nil
	case ModeSequential:
		return ModeSequential, nil
	default:
		return "", fmt.Errorf("unknown submission mode %q", s)
	}
}

// Job is the set of items a strategy owns until they are sent.
// ExpectedCount is fixed at creation; SubmittedCount only grows.
type Job struct {
	Items          []protocol.EncodedItem
	ExpectedCount  int
	SubmittedCount int
	Mode           Mode
}

func newJob(mode Mode, items []protocol.EncodedItem) Job {
	owned := make([]protocol.EncodedItem, len(items))
	copy(owned, items)
	return Job{Items: owned, ExpectedCount: len(owned), Mode: mode}
}

// sendItem transmits the next unsent item.
func (j *Job) sendItem(s Sender) error {
	if j.SubmittedCount >= j.ExpectedCount {
		return ErrOverSubmit
	}
	item := j.Items[j.SubmittedCount]
	if err := s.Send(protocol.NewProcess(item)); err != nil {
		return fmt.Errorf("send process %s: %w", item.Name, err)
	}
	j.SubmittedCount++
	return nil
}

// New builds the policy for mode over items.
func New(mode Mode, items []protocol.EncodedItem) (Strategy, error) {
	switch mode {
	case ModeBulk:
		return &bulkStrategy{job: newJob(mode, items)}, nil
	case ModeSequential:
		return &sequentialStrategy{job: newJob(mode, items)}, nil
	default:
		return nil, fmt.Errorf("unknown submission mode %q", mode)
	}
}
