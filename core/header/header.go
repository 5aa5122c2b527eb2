package header

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dmitrymomot/sealbox/core/compress"
	"github.com/dmitrymomot/sealbox/core/crypt"
)

// Version is the current wire format version.
const Version byte = 0x01

const (
	// FixedLen is the length of the mandatory header prefix: version,
	// algorithm id, compression id, flags.
	FixedLen = 4

	// timestampLen and ttlLen are the optional big-endian field widths.
	timestampLen = 4
	ttlLen       = 4
)

// Flag bits in header byte 3.
const (
	flagTimestamp byte = 1 << 0
	flagTTL       byte = 1 << 1

	knownFlags = flagTimestamp | flagTTL
)

// Metadata is the self-describing token header. It is embedded at the start
// of every token and can be re-derived from a token without any secret.
//
// IssuedAt and TTL are independently optional; the zero value means the
// field is absent and its flag bit is not written. Timestamps are stored as
// whole seconds, so sub-second precision is lost on the wire: an explicit
// lossy conversion, not a bug. A zero TTL cannot be represented; use the
// zero value to omit the field entirely.
type Metadata struct {
	Version     byte
	Algorithm   crypt.Algorithm
	Compression compress.Algorithm
	IssuedAt    time.Time
	TTL         time.Duration
}

// HasTimestamp reports whether the header carries an issue timestamp.
func (m Metadata) HasTimestamp() bool {
	return !m.IssuedAt.IsZero()
}

// HasTTL reports whether the header carries a time-to-live.
func (m Metadata) HasTTL() bool {
	return m.TTL > 0
}

// ExpiresAt returns the expiry instant, or the zero time when the header
// carries no timestamp or no TTL and therefore never expires.
func (m Metadata) ExpiresAt() time.Time {
	if !m.HasTimestamp() || !m.HasTTL() {
		return time.Time{}
	}
	return m.IssuedAt.Add(m.TTL)
}

// Expired reports whether the header is past its expiry at the given
// instant. Headers without both a timestamp and a TTL never expire.
func (m Metadata) Expired(now time.Time) bool {
	expiresAt := m.ExpiresAt()
	if expiresAt.IsZero() {
		return false
	}
	return !now.Before(expiresAt)
}

// Size returns the packed length in bytes for this metadata: the 4-byte
// fixed prefix plus 4 bytes per present optional field.
func Size(m Metadata) int {
	size := FixedLen
	if m.HasTimestamp() {
		size += timestampLen
	}
	if m.HasTTL() {
		size += ttlLen
	}
	return size
}

// Pack serializes metadata into the binary wire header. Unknown algorithm or
// compression ids fail with ErrUnsupportedAlgorithm or
// ErrUnsupportedCompression; an unknown version fails with
// ErrUnsupportedVersion; a TTL below one second fails with ErrInvalidTTL
// because it cannot be represented on the wire.
func Pack(m Metadata) ([]byte, error) {
	if m.Version != Version {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, m.Version)
	}
	if !m.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedAlgorithm, byte(m.Algorithm))
	}
	if !m.Compression.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedCompression, byte(m.Compression))
	}
	// A sub-second TTL would serialize as a zero field, which Unpack
	// rejects. Callers either omit the field or round to whole seconds.
	if m.HasTTL() && m.TTL < time.Second {
		return nil, ErrInvalidTTL
	}

	buf := make([]byte, FixedLen, Size(m))
	buf[0] = m.Version
	buf[1] = byte(m.Algorithm)
	buf[2] = byte(m.Compression)

	if m.HasTimestamp() {
		buf[3] |= flagTimestamp
		buf = binary.BigEndian.AppendUint32(buf, uint32(m.IssuedAt.Unix()))
	}
	if m.HasTTL() {
		buf[3] |= flagTTL
		buf = binary.BigEndian.AppendUint32(buf, uint32(m.TTL/time.Second))
	}

	return buf, nil
}

// Unpack parses a binary wire header from the start of data. Trailing bytes
// beyond the header are ignored, so a full token body can be passed
// directly; use Size on the result to find where the header ends.
func Unpack(data []byte) (Metadata, error) {
	if len(data) < FixedLen {
		return Metadata{}, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncated, FixedLen, len(data))
	}

	m := Metadata{
		Version:     data[0],
		Algorithm:   crypt.Algorithm(data[1]),
		Compression: compress.Algorithm(data[2]),
	}
	flags := data[3]

	if m.Version != Version {
		return Metadata{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, m.Version)
	}
	if !m.Algorithm.Valid() {
		return Metadata{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedAlgorithm, data[1])
	}
	if !m.Compression.Valid() {
		return Metadata{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedCompression, data[2])
	}
	if flags&^knownFlags != 0 {
		return Metadata{}, fmt.Errorf("%w: 0x%02x", ErrUnknownFlags, flags)
	}

	offset := FixedLen
	if flags&flagTimestamp != 0 {
		if len(data) < offset+timestampLen {
			return Metadata{}, fmt.Errorf("%w: timestamp field", ErrTruncated)
		}
		seconds := binary.BigEndian.Uint32(data[offset : offset+timestampLen])
		m.IssuedAt = time.Unix(int64(seconds), 0)
		offset += timestampLen
	}
	if flags&flagTTL != 0 {
		if len(data) < offset+ttlLen {
			return Metadata{}, fmt.Errorf("%w: ttl field", ErrTruncated)
		}
		seconds := binary.BigEndian.Uint32(data[offset : offset+ttlLen])
		// A zero TTL would make the parsed size disagree with Size(m),
		// desynchronizing the field split downstream. Encoders omit the
		// field instead of writing zero, so reject it here.
		if seconds == 0 {
			return Metadata{}, ErrInvalidTTL
		}
		m.TTL = time.Duration(seconds) * time.Second
	}

	return m, nil
}
