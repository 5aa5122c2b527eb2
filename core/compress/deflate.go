package compress

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateCompressor implements the portable raw-DEFLATE algorithm.
// It behaves identically on every platform and serves as the substitution
// target when a preferred algorithm is unavailable.
type deflateCompressor struct{}

func (deflateCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create deflate writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate flush: %w", err)
	}

	return buf.Bytes(), nil
}

func (deflateCompressor) Decompress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", ErrCorruptData, err)
	}

	return out, nil
}
