// Package stream splits payloads too large for a single token into
// independently encoded chunks and reassembles them in any arrival order.
// Each chunk is a complete pipeline token; a shared correlation id ties one
// stream together and rejects cross-stream mixing.
//
// # Protocol
//
// EncodeStream serializes the whole payload once, slices the serialized
// bytes into ceil(n/chunkSize) pieces, and encodes every piece with one
// fresh correlation id. Chunks travel independently (different cookies,
// URL parameters, storage keys) and DecodeStream validates on arrival:
//
//   - every chunk carries the same correlation id (ErrChunkMismatch)
//   - the set size equals the declared total (IncompleteChunksError)
//   - indices form exactly 0..total-1 (MissingChunkError names the first gap)
//
// # Usage
//
//	s := stream.New(token.New())
//	secret := crypt.NewPassphrase("correct horse battery staple")
//
//	chunks, err := s.EncodeStream(ctx, largePayload, secret, 0) // default size
//	if err != nil {
//		return err
//	}
//
//	// Arrival order does not matter.
//	var restored Payload
//	if err := s.DecodeStream(ctx, shuffled(chunks), secret, &restored); err != nil {
//		return err
//	}
//
// When only the bare token strings survived transport, the chunk
// coordinates are recovered from the tokens themselves:
//
//	err = s.DecodeStreamFromTokens(ctx, tokenStrings, secret, &restored)
//
// # Deciding Whether to Stream
//
//	if ok, _ := stream.ShouldStream(payload, 3500); ok {
//		n, _ := stream.EstimateChunkCount(payload, 2048)
//		// plan storage for n chunks
//	}
package stream
