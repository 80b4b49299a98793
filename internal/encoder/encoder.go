package encoder

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// EncodingError reports an input that could not be turned into an item
type EncodingError struct {
	Name string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *implEncoder) Encode(ctx context.Context, src Source) (protocol.EncodedItem, error) {
	if err := ctx.Err(); err != nil {
		return protocol.EncodedItem{}, &EncodingError{Name: src.Name, Err: err}
	}

	if src.Kind == protocol.KindText {
		return protocol.EncodedItem{
			Name: src.Name,
			Data: src.Text,
			Mime: "text/plain",
			Size: int64(len(src.Text)),
			Kind: protocol.KindText,
		}, nil
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return protocol.EncodedItem{}, &EncodingError{Name: src.Name, Err: err}
	}

	e.logger.Debug(ctx, "Encoded %s (%d bytes)", src.Name, len(data))

	return protocol.EncodedItem{
		Name: src.Name,
		Data: base64.StdEncoding.EncodeToString(data),
		Mime: MimeType(src.Name),
		Size: int64(len(data)),
		Kind: protocol.KindFile,
	}, nil
}

func (e *implEncoder) EncodeAll(ctx context.Context, srcs []Source) ([]protocol.EncodedItem, error) {
	items := make([]protocol.EncodedItem, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			item, err := e.Encode(gctx, src)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}
