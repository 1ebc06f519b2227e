package compression

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/iamNilotpal/kff/internal/core/domain"
	domaincfg "github.com/iamNilotpal/kff/internal/core/domain/config"
	"github.com/iamNilotpal/kff/internal/core/ports"
)

// ErrLimitExceeded is returned by Decompress when the data inflates beyond
// the requested limit.
var ErrLimitExceeded = errors.New("decompressed data exceeds limit")

// maxPrealloc caps the output buffer reserved up front for a bounded
// decode. Larger outputs grow as they are decoded.
const maxPrealloc = 4 << 20

func exceeds(limit int) error {
	return fmt.Errorf("%w of %d bytes", ErrLimitExceeded, limit)
}

// Returns CompressionOptions struct initialized with
// recommended default values that provide a good balance between compression ratio
// and performance for most use cases.
func DefaultOptions() *domain.CompressionOptions {
	return &domain.CompressionOptions{
		Codec:              domain.CodecZstd,
		Level:              DefaultLevel,
		Threshold:          domaincfg.CompressionThreshold,
		EncoderConcurrency: uint8(min(runtime.NumCPU(), 255)),
		DecoderConcurrency: uint8(min(runtime.NumCPU(), 255)),
	}
}

// Checks if the compression options are valid and returns an error if any option
// is outside acceptable bounds. It ensures the codec, Level and concurrency settings
// are within their allowed ranges. Level and concurrency only matter for zstd.
func Validate(input *domain.CompressionOptions) error {
	if !input.Codec.IsValid() {
		return fmt.Errorf("unsupported compression codec: %s", input.Codec)
	}

	if input.Codec != domain.CodecZstd {
		return nil
	}

	// Validate compression level (1-4)
	if input.Level < FastestLevel || input.Level > BestLevel {
		return fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, input.Level)
	}

	// Validate encoder concurrency
	if int(input.EncoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"encoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.EncoderConcurrency,
		)
	}

	// Validate decoder concurrency
	if int(input.DecoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"decoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.DecoderConcurrency,
		)
	}

	return nil
}

// New builds the compressor selected by opts.Codec. CodecNone yields a
// passthrough that copies its input.
func New(opts *domain.CompressionOptions) (ports.CompressionPort, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	switch opts.Codec {
	case domain.CodecZstd:
		return NewZstdCompression(opts)
	case domain.CodecLZ4:
		return NewLZ4Compression(), nil
	case domain.CodecSnappy:
		return NewSnappyCompression(), nil
	default:
		return noCompression{}, nil
	}
}

// ForCodec builds a compressor for decoding payloads written with codec,
// using default settings.
func ForCodec(codec domain.CompressionCodec) (ports.CompressionPort, error) {
	opts := DefaultOptions()
	opts.Codec = codec
	return New(opts)
}

type noCompression struct{}

func (noCompression) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (noCompression) Decompress(data []byte, limit int) ([]byte, error) {
	if limit > 0 && len(data) > limit {
		return nil, exceeds(limit)
	}
	return append([]byte(nil), data...), nil
}

func (noCompression) Close() error { return nil }

func (noCompression) Name() string { return domain.CodecNone.String() }
