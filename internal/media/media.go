package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
)

var videoFormats = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
	".m4v":  {},
	".flv":  {},
}

// IsVideo reports whether the file has a supported video extension
func IsVideo(path string) bool {
	_, ok := videoFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsSupported reports whether path can be submitted, directly or after conversion
func IsSupported(path string) bool {
	return encoder.IsSupported(path) || IsVideo(path)
}

func (p *implPreparer) Prepare(ctx context.Context, path string) (encoder.Source, error) {
	if !IsVideo(path) {
		if !encoder.IsSupported(path) {
			return encoder.Source{}, fmt.Errorf("unsupported input %s", filepath.Base(path))
		}
		return encoder.FileSource(path), nil
	}

	audioPath, err := p.extractAudio(ctx, path)
	if err != nil {
		return encoder.Source{}, fmt.Errorf("extract audio: %w", err)
	}

	src := encoder.FileSource(audioPath)
	src.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".mp3"
	return src, nil
}

func (p *implPreparer) Check() error {
	if _, err := p.executor.LookPath(p.opts.Binary); err != nil {
		return fmt.Errorf("ffmpeg unavailable: %w", err)
	}
	return nil
}

// extractAudio converts a video into a mono mp3 the remote transcribes directly
func (p *implPreparer) extractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(p.opts.TempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(p.opts.TempDir, stem+"_temp.mp3")

	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(p.opts.SampleRate),
		"-acodec", "libmp3lame",
		"-b:a", p.opts.AudioBitrate,
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.opts.Binary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}

func (p *implPreparer) Release(ctx context.Context, src encoder.Source) {
	if src.Path == "" || p.opts.TempDir == "" {
		return
	}
	rel, err := filepath.Rel(p.opts.TempDir, src.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}

	if err := os.Remove(src.Path); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", src.Path, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", src.Path)
	}
}

func (p *implPreparer) Archive(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(p.opts.ArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	destPath := filepath.Join(p.opts.ArchiveDir, filepath.Base(path))
	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	return destPath, nil
}
