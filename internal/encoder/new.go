package encoder

import (
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
)

type implEncoder struct {
	workers int
	logger  logger.Logger
}

// New creates an Encoder that reads at most workers files at once
func New(workers int, log logger.Logger) Encoder {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &implEncoder{
		workers: workers,
		logger:  log,
	}
}
