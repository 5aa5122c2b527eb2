package compress

import "context"

// noneCompressor passes data through unchanged.
type noneCompressor struct{}

func (noneCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func (noneCompressor) Decompress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
