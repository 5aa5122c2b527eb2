package stream

import (
	"errors"
	"fmt"
)

// Error variables define specific failure scenarios in the chunk protocol.
var (
	// ErrNoChunks indicates an empty chunk or token set.
	ErrNoChunks = errors.New("no chunks provided")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrChunkMismatch indicates chunks from different streams were mixed:
	// correlation ids or declared totals disagree.
	ErrChunkMismatch = errors.New("chunks belong to different streams")

	// ErrReassemblyFailed indicates the reassembled payload is not valid,
	// typically because chunk data was corrupted in transit.
	ErrReassemblyFailed = errors.New("reassembled payload is not valid")
)

// IncompleteChunksError indicates the set size disagrees with the total
// declared inside the chunks.
type IncompleteChunksError struct {
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *IncompleteChunksError) Error() string {
	return fmt.Sprintf("incomplete chunk set: expected %d chunks, got %d", e.Expected, e.Actual)
}

// MissingChunkError names the first index gap in a chunk set whose size
// matches the declared total but whose indices are not contiguous.
type MissingChunkError struct {
	Index int
}

// Error implements the error interface.
func (e *MissingChunkError) Error() string {
	return fmt.Sprintf("missing chunk at index %d", e.Index)
}
