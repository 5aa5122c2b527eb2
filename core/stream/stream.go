package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sealbox/core/codec"
	"github.com/dmitrymomot/sealbox/core/crypt"
	"github.com/dmitrymomot/sealbox/core/token"
)

// DefaultChunkSize is the serialized-payload slice size used when a call
// does not specify one. It keeps individual tokens comfortably under common
// cookie and URL length limits even after encryption and base64 overhead.
const DefaultChunkSize = 2048

// Chunk is one independently decodable token of a streamed payload plus its
// reassembly coordinates. All chunks of one EncodeStream call share a
// ChunkID; indices cover exactly 0..Total-1.
type Chunk struct {
	Token   string `json:"token"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	ChunkID string `json:"chunkId"`
}

// chunkPayload is the wire wrapper each chunk token encodes. Data carries a
// base64url slice of the serialized payload so that slicing never has to
// respect UTF-8 boundaries.
type chunkPayload struct {
	Data string    `json:"data"`
	Meta chunkMeta `json:"meta"`
}

type chunkMeta struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	ChunkID string `json:"chunkId"`
}

// Streamer splits oversized payloads into independently encoded token
// chunks and reassembles them in any arrival order. It is stateless beyond
// the injected token manager and safe for concurrent use.
type Streamer struct {
	tokens    *token.Manager
	chunkSize int
}

// Option configures a Streamer.
type Option func(*Streamer)

// WithChunkSize sets the default serialized-payload slice size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Streamer) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// New creates a Streamer on top of the given token manager. A nil manager
// gets the default one.
func New(tokens *token.Manager, opts ...Option) *Streamer {
	if tokens == nil {
		tokens = token.New()
	}

	s := &Streamer{
		tokens:    tokens,
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// EncodeStream serializes the entire payload once, splits it into
// ceil(len/chunkSize) slices, and encodes each slice as an independent
// token sharing one fresh correlation id. Per-chunk encodes fan out
// concurrently; the returned slice is ordered by index, but consumers may
// deliver chunks in any order. chunkSize zero uses the streamer default.
func (s *Streamer) EncodeStream(ctx context.Context, data any, secret crypt.Secret, chunkSize int, opts ...token.EncodeOption) ([]Chunk, error) {
	if chunkSize == 0 {
		chunkSize = s.chunkSize
	}
	if chunkSize < 0 {
		return nil, ErrInvalidChunkSize
	}

	serialized, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal stream payload: %w", err)
	}

	total := (len(serialized) + chunkSize - 1) / chunkSize
	if total == 0 {
		total = 1 // empty payload still produces one chunk
	}
	chunkID := uuid.NewString()

	chunks := make([]Chunk, total)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < total; i++ {
		i := i
		g.Go(func() error {
			start := i * chunkSize
			end := min(start+chunkSize, len(serialized))

			payload := chunkPayload{
				Data: codec.EncodeBase64URL(serialized[start:end]),
				Meta: chunkMeta{Index: i, Total: total, ChunkID: chunkID},
			}

			tok, err := s.tokens.Encode(ctx, payload, secret, opts...)
			if err != nil {
				return fmt.Errorf("encode chunk %d: %w", i, err)
			}

			chunks[i] = Chunk{Token: tok, Index: i, Total: total, ChunkID: chunkID}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// DecodeStream decodes every chunk independently, validates the set (one
// correlation id, complete contiguous indices, count matching the declared
// total), reassembles the serialized payload in index order, and
// deserializes it into dst. Arrival order of chunks is irrelevant.
func (s *Streamer) DecodeStream(ctx context.Context, chunks []Chunk, secret crypt.Secret, dst any) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	payloads := make([]chunkPayload, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := s.tokens.Decode(ctx, chunk.Token, secret, &payloads[i]); err != nil {
				return fmt.Errorf("decode chunk at position %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return reassemble(payloads, dst)
}

// DecodeStreamFromTokens decodes bare token strings whose chunk coordinates
// are only known from the embedded wrappers, then reassembles them exactly
// like DecodeStream. Each token is decoded once; the recovered metadata is
// reused rather than decoding twice.
func (s *Streamer) DecodeStreamFromTokens(ctx context.Context, tokens []string, secret crypt.Secret, dst any) error {
	if len(tokens) == 0 {
		return ErrNoChunks
	}

	payloads := make([]chunkPayload, len(tokens))

	g, ctx := errgroup.WithContext(ctx)
	for i, tok := range tokens {
		i, tok := i, tok
		g.Go(func() error {
			if err := s.tokens.Decode(ctx, tok, secret, &payloads[i]); err != nil {
				return fmt.Errorf("decode chunk at position %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return reassemble(payloads, dst)
}

// reassemble validates a decoded chunk set and deserializes the
// concatenated payload into dst.
func reassemble(payloads []chunkPayload, dst any) error {
	chunkID := payloads[0].Meta.ChunkID
	total := payloads[0].Meta.Total

	for _, p := range payloads {
		if p.Meta.ChunkID != chunkID || p.Meta.Total != total {
			return ErrChunkMismatch
		}
	}

	if len(payloads) != total {
		return &IncompleteChunksError{Expected: total, Actual: len(payloads)}
	}

	sort.Slice(payloads, func(i, j int) bool {
		return payloads[i].Meta.Index < payloads[j].Meta.Index
	})

	for i, p := range payloads {
		if p.Meta.Index != i {
			return &MissingChunkError{Index: i}
		}
	}

	parts := make([][]byte, len(payloads))
	for i, p := range payloads {
		data, err := codec.DecodeBase64URL(p.Data)
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %v", ErrReassemblyFailed, i, err)
		}
		parts[i] = data
	}

	if err := json.Unmarshal(codec.Concat(parts...), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrReassemblyFailed, err)
	}

	return nil
}

// EstimateChunkCount returns how many chunks EncodeStream would produce for
// the payload at the given chunk size, without encoding anything.
func EstimateChunkCount(data any, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, ErrInvalidChunkSize
	}

	serialized, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("marshal stream payload: %w", err)
	}

	total := (len(serialized) + chunkSize - 1) / chunkSize
	if total == 0 {
		total = 1
	}
	return total, nil
}

// ShouldStream reports whether the payload's serialized size exceeds the
// threshold, helping callers decide between Encode and EncodeStream.
func ShouldStream(data any, threshold int) (bool, error) {
	serialized, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("marshal stream payload: %w", err)
	}
	return len(serialized) > threshold, nil
}
