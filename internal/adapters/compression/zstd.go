// Package compression provides the codecs used to shrink memory payloads
// inside serialized factory descriptors: zstd, lz4 and snappy.
package compression

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/klauspost/compress/zstd"
)

// Zstd levels, one per encoder speed preset.
const (
	FastestLevel = uint8(zstd.SpeedFastest)
	DefaultLevel = uint8(zstd.SpeedDefault)
	BestLevel    = uint8(zstd.SpeedBestCompression)
)

var errZstdClosed = errors.New("zstd compressor is closed")

// minBoundedMemory is the least memory a bounded decode may use, so frames
// from other encoders with windows above tiny payloads still decode.
const minBoundedMemory = 1 << 20

// ZstdCompression implements CompressionPort with zstd. The encoder and
// decoder are shared, so one instance serves concurrent descriptor codecs
// until Close.
type ZstdCompression struct {
	mu      sync.RWMutex
	closed  bool
	level   uint8
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCompression builds a zstd codec from opts.Level and the encoder and
// decoder concurrency. Zero concurrency means GOMAXPROCS.
func NewZstdCompression(opts *domain.CompressionOptions) (*ZstdCompression, error) {
	zopts := *opts
	zopts.Codec = domain.CodecZstd
	if err := Validate(&zopts); err != nil {
		return nil, err
	}

	workers := func(n uint8) int {
		if n == 0 {
			return runtime.GOMAXPROCS(0)
		}
		return int(n)
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevel(zopts.Level)),
		zstd.WithEncoderConcurrency(workers(zopts.EncoderConcurrency)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(workers(zopts.DecoderConcurrency)))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &ZstdCompression{level: zopts.Level, encoder: encoder, decoder: decoder}, nil
}

// Compress always returns a zstd frame, even when it is larger than data.
func (z *ZstdCompression) Compress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, errZstdClosed
	}
	return z.encoder.EncodeAll(data, nil), nil
}

func (z *ZstdCompression) Decompress(data []byte, limit int) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, errZstdClosed
	}

	if limit <= 0 {
		out, err := z.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompression failed: %w", err)
		}
		return out, nil
	}

	return decodeBounded(data, limit)
}

// decodeBounded decodes with a throwaway decoder whose memory is capped, so
// a frame declaring or producing more than the cap stops after at most one
// block instead of inflating fully.
func decodeBounded(data []byte, limit int) ([]byte, error) {
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(max(limit, minBoundedMemory))),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(data, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, exceeds(limit)
	}
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	if len(out) > limit {
		return nil, exceeds(limit)
	}
	return out, nil
}

func (z *ZstdCompression) Level() uint8 {
	return z.level
}

func (z *ZstdCompression) Name() string {
	return domain.CodecZstd.String()
}

// Close releases the encoder and decoder. Later calls are no-ops.
func (z *ZstdCompression) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return nil
	}
	z.closed = true

	z.decoder.Close()
	if err := z.encoder.Close(); err != nil {
		return fmt.Errorf("closing zstd encoder: %w", err)
	}
	return nil
}
