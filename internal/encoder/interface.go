package encoder

import (
	"context"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Encoder turns raw inputs into transmissible items
type Encoder interface {
	Encode(ctx context.Context, src Source) (protocol.EncodedItem, error)
	// EncodeAll encodes every source concurrently and returns the items in source order.
	// Any single failure fails the whole batch.
	EncodeAll(ctx context.Context, srcs []Source) ([]protocol.EncodedItem, error)
}
