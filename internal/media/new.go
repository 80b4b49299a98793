package media

import (
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/pkg/executor"
)

// Options configures audio extraction and file placement.
type Options struct {
	Binary       string
	AudioBitrate string
	SampleRate   int
	TempDir      string
	ArchiveDir   string
}

type implPreparer struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Preparer that shells out to ffmpeg through exec
func New(opts Options, exec executor.Executor, log logger.Logger) Preparer {
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.AudioBitrate == "" {
		opts.AudioBitrate = "64k"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &implPreparer{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}
