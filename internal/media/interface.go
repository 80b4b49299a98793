package media

import (
	"context"

	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
)

// Preparer turns input paths into encoder sources, converting video to audio on the way.
type Preparer interface {
	// Prepare returns the source for path. Video files are converted to mono mp3 in the
	// temp dir; the returned source is then named "<stem>.mp3".
	Prepare(ctx context.Context, path string) (encoder.Source, error)
	// Release removes any temporary file Prepare created for src.
	Release(ctx context.Context, src encoder.Source)
	// Archive moves a processed input into the archive dir and returns its new path.
	Archive(ctx context.Context, path string) (string, error)
	// Check reports whether the ffmpeg binary video conversion needs can be found.
	Check() error
}
