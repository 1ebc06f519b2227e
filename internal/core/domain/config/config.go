package config

import (
	"fmt"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

const (
	// MinBlockSize is the smallest block a channel is streamed in. Smaller
	// blocks only add read calls without saving meaningful memory.
	MinBlockSize = 512 // 512 bytes.

	// SmallBlockSize suits many small concurrent digests.
	// This size aligns with common page sizes in modern file systems.
	SmallBlockSize = 4096 // 4KB (typical page size).

	// DefaultBlockSize is the recommended block size for most workloads.
	DefaultBlockSize = 32 * 1024 // 32KB

	// LargeBlockSize is intended for digesting few, very large files.
	LargeBlockSize = 256 * 1024 // 256KB.

	// MaxBlockSize bounds the memory a single digest run holds on to.
	MaxBlockSize = 4 * 1024 * 1024 // 4MB.

	// CompressionThreshold determines when a serialized memory payload is
	// a candidate for compression.
	CompressionThreshold = 4 * 1024 // 4KB.

	// DefaultConcurrency is the number of digest runs a batch executes at once.
	DefaultConcurrency = 4

	// MaxConcurrency bounds batch parallelism.
	MaxConcurrency = 256

	// Descriptor versions for backwards compatibility control.
	MinVersion = 1 // Oldest supported version.
	MaxVersion = 1 // Current version.
)

// ReadConfig controls how channels are streamed through the digest engines.
type ReadConfig struct {
	// BlockSize is the size of each read.
	BlockSize uint32

	// Concurrency is the number of digest runs a batch executes at once.
	Concurrency int
}

// ReadConfigOption defines the signature for configuration options.
type ReadConfigOption func(*ReadConfig)

// WithBlockSize sets the read block size. Sizes outside
// [MinBlockSize, MaxBlockSize] are ignored.
func WithBlockSize(size uint32) ReadConfigOption {
	return func(c *ReadConfig) {
		if size >= MinBlockSize && size <= MaxBlockSize {
			c.BlockSize = size
		}
	}
}

// WithConcurrency sets batch parallelism. Values outside
// [1, MaxConcurrency] are ignored.
func WithConcurrency(n int) ReadConfigOption {
	return func(c *ReadConfig) {
		if n >= 1 && n <= MaxConcurrency {
			c.Concurrency = n
		}
	}
}

// NewReadConfig initializes a ReadConfig with default values and applies
// any provided options.
func NewReadConfig(opts ...ReadConfigOption) *ReadConfig {
	cfg := DefaultReadConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate checks all read parameters against their bounds.
func (c *ReadConfig) Validate() error {
	if err := ValidateBlockSize(c.BlockSize); err != nil {
		return err
	}

	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return kfferrors.NewValidationError(
			"concurrency", c.Concurrency,
			fmt.Errorf("must be between 1 and %d", MaxConcurrency),
		)
	}

	return nil
}

// ValidateBlockSize reports whether size is an acceptable read block size.
func ValidateBlockSize(size uint32) error {
	if size < MinBlockSize {
		return kfferrors.NewValidationError(
			"block_size", size,
			fmt.Errorf("below minimum allowed value of %d", MinBlockSize),
		)
	}

	if size > MaxBlockSize {
		return kfferrors.NewValidationError(
			"block_size", size,
			fmt.Errorf("exceeds maximum allowed value of %d", MaxBlockSize),
		)
	}

	return nil
}
