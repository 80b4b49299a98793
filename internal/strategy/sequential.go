package strategy

import (
	"fmt"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// sequentialStrategy keeps one item in flight. Each item is its own one-item batch
// (start, process, end) and the cursor advances only when the remote reports that batch done.
type sequentialStrategy struct {
	job    Job
	cursor int
}

func (q *sequentialStrategy) Mode() Mode { return ModeSequential }

func (q *sequentialStrategy) Begin(s Sender) error {
	if q.job.ExpectedCount == 0 {
		return nil
	}
	return q.sendNext(s)
}

func (q *sequentialStrategy) OnDone(s Sender) (bool, error) {
	if q.cursor >= q.job.ExpectedCount {
		return true, nil
	}
	// a done before the current item was sent belongs to nothing we know about
	if q.job.SubmittedCount <= q.cursor {
		return false, nil
	}

	q.cursor++
	if q.cursor >= q.job.ExpectedCount {
		return true, nil
	}
	return false, q.sendNext(s)
}

func (q *sequentialStrategy) sendNext(s Sender) error {
	if err := s.Send(protocol.NewStart(1)); err != nil {
		return fmt.Errorf("send start: %w", err)
	}
	if err := q.job.sendItem(s); err != nil {
		return err
	}
	if err := s.Send(protocol.NewEnd()); err != nil {
		return fmt.Errorf("send end: %w", err)
	}
	return nil
}

func (q *sequentialStrategy) AllSent() bool {
	return q.job.SubmittedCount == q.job.ExpectedCount
}

func (q *sequentialStrategy) Job() Job {
	return q.job
}

// Cursor returns the index of the item currently awaiting its done signal.
func (q *sequentialStrategy) Cursor() int {
	return q.cursor
}
