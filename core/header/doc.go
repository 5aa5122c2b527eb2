// Package header implements the versioned binary metadata prefix carried at
// the start of every token.
//
// # Wire Layout
//
// All multi-byte integers are big-endian. Byte offsets relative to the
// start of the decoded token:
//
//	| Field          | Size     | Notes                                  |
//	|----------------|----------|----------------------------------------|
//	| version        | 1B       | currently 0x01                         |
//	| algorithm id   | 1B       | 0x01 = AES-256-GCM                     |
//	| compression id | 1B       | 0x00 none, 0x01 brotli, 0x02 deflate,  |
//	|                |          | 0x03 zlib                              |
//	| flags          | 1B       | bit0 = timestamp, bit1 = ttl           |
//	| timestamp      | 4B (opt) | seconds since epoch                    |
//	| ttl            | 4B (opt) | seconds                                |
//
// # Usage
//
//	meta := header.Metadata{
//		Version:     header.Version,
//		Algorithm:   crypt.AESGCM256,
//		Compression: compress.Brotli,
//		IssuedAt:    time.Now(),
//		TTL:         15 * time.Minute,
//	}
//
//	packed, err := header.Pack(meta)
//	if err != nil {
//		return err
//	}
//
//	parsed, err := header.Unpack(tokenBytes) // trailing bytes ignored
//	if err != nil {
//		return err
//	}
//	body := tokenBytes[header.Size(parsed):]
//
// Timestamps are rounded down to whole seconds on the wire; callers must
// tolerate the sub-second precision loss after a pack/unpack round trip.
package header
