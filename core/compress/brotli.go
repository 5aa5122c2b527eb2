package compress

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// brotliCompressor implements the high-ratio algorithm preferred for text
// payloads. It is pure Go, but providers may still mark it unavailable on
// constrained builds; the pipeline then substitutes Deflate.
type brotliCompressor struct{}

func (brotliCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli flush: %w", err)
	}

	return buf.Bytes(), nil
}

func (brotliCompressor) Decompress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: brotli: %v", ErrCorruptData, err)
	}

	return out, nil
}
