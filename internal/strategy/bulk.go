package strategy

import (
	"fmt"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// bulkStrategy announces the count, sends every item back-to-back, then ends the batch.
// The remote answers with a single done once every item has finished.
type bulkStrategy struct {
	job   Job
	begun bool
}

func (b *bulkStrategy) Mode() Mode { return ModeBulk }

func (b *bulkStrategy) Begin(s Sender) error {
	b.begun = true

	if err := s.Send(protocol.NewStart(b.job.ExpectedCount)); err != nil {
		return fmt.Errorf("send start: %w", err)
	}
	for b.job.SubmittedCount < b.job.ExpectedCount {
		if err := b.job.sendItem(s); err != nil {
			return err
		}
	}
	if err := s.Send(protocol.NewEnd()); err != nil {
		return fmt.Errorf("send end: %w", err)
	}
	return nil
}

func (b *bulkStrategy) OnDone(Sender) (bool, error) {
	return b.begun && b.AllSent(), nil
}

func (b *bulkStrategy) AllSent() bool {
	return b.job.SubmittedCount == b.job.ExpectedCount
}

func (b *bulkStrategy) Job() Job {
	return b.job
}
