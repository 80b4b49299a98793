package output

import (
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
)

// Options selects where and in which formats results are written.
type Options struct {
	Dir      string
	Markdown bool
	Docx     bool
}

type implWriter struct {
	opts   Options
	logger logger.Logger
}

// New creates a Writer rooted at opts.Dir.
func New(opts Options, log logger.Logger) Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &implWriter{
		opts:   opts,
		logger: log,
	}
}
