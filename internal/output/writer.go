package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
)

func (w *implWriter) Write(ctx context.Context, results []collector.ResultItem) ([]string, error) {
	if len(results) == 0 || (!w.opts.Markdown && !w.opts.Docx) {
		return nil, nil
	}

	if err := os.MkdirAll(w.opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	failCount := 0

	for _, r := range results {
		// identifiers come from the remote; never let them leave the output dir
		name := filepath.Base(r.Identifier)
		if name == "." || name == string(filepath.Separator) {
			w.logger.Warn(ctx, "Skipping result with unusable name %q", r.Identifier)
			failCount++
			continue
		}

		if w.opts.Markdown {
			path := filepath.Join(w.opts.Dir, name)
			if err := os.WriteFile(path, []byte(r.Content), 0644); err != nil {
				w.logger.Error(ctx, "Failed to write %s: %v", path, err)
				failCount++
				continue
			}
			written = append(written, path)
		}

		if w.opts.Docx {
			path := filepath.Join(w.opts.Dir, strings.TrimSuffix(name, filepath.Ext(name))+".docx")
			title := strings.TrimSuffix(r.SourceIdentifier, filepath.Ext(r.SourceIdentifier))
			if err := markdownToDocx(title, r.Content, path); err != nil {
				w.logger.Error(ctx, "Failed to write %s: %v", path, err)
				failCount++
				continue
			}
			written = append(written, path)
		}
	}

	w.logger.Info(ctx, "Wrote %d files to %s", len(written), w.opts.Dir)

	if failCount > 0 {
		return written, fmt.Errorf("write results: %d of %d failed", failCount, len(results))
	}
	return written, nil
}
