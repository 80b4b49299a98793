package output

import (
	"context"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
)

// Writer persists finished results to disk.
type Writer interface {
	// Write stores every result and returns the paths it created, in result order.
	Write(ctx context.Context, results []collector.ResultItem) ([]string, error)
}
