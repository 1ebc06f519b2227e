package domain

import (
	"fmt"
	"strings"
)

// CompressionCodec identifies the codec a serialized memory payload was
// compressed with. The numeric values are part of the descriptor wire
// format and must never change.
type CompressionCodec uint8

const (
	CodecNone   CompressionCodec = 0
	CodecZstd   CompressionCodec = 1
	CodecLZ4    CompressionCodec = 2
	CodecSnappy CompressionCodec = 3
)

func (c CompressionCodec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	case CodecSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// IsValid checks if the codec is a known codec.
func (c CompressionCodec) IsValid() bool {
	return c <= CodecSnappy
}

// ParseCompressionCodec maps a codec name to its codec.
func ParseCompressionCodec(name string) (CompressionCodec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "snappy":
		return CodecSnappy, nil
	default:
		return CodecNone, fmt.Errorf("unsupported compression codec: %s", name)
	}
}

// CompressionOptions configures how memory payloads are compressed when a
// factory descriptor is serialized for transport.
type CompressionOptions struct {
	// Codec selects the compression algorithm. CodecNone disables
	// compression entirely.
	Codec CompressionCodec

	// Level defines the zstd encoder level when Codec is CodecZstd.
	// Supported levels:
	//   - 1: Fastest compression
	//   - 2: Default balanced compression (≈ zstd level 3)
	//   - 3: Better compression ratio with 2x-3x CPU usage
	//   - 4: Maximum compression regardless of CPU cost
	// Ignored by the other codecs.
	Level uint8

	// Threshold is the payload size, in bytes, below which payloads are
	// stored uncompressed. Compression is also skipped whenever it would not
	// shrink the payload.
	//
	// Default: 4KB
	Threshold uint32

	// EncoderConcurrency specifies the number of concurrent zstd encoders.
	// Must be between 0 and the number of CPU cores; 0 means one per core.
	EncoderConcurrency uint8

	// DecoderConcurrency specifies the number of concurrent zstd decoders.
	// Must be between 0 and the number of CPU cores; 0 means one per core.
	DecoderConcurrency uint8
}
