package ports

// Defines the interface for compression operations.
// This allows us to swap compression algorithms without changing the
// descriptor codec.
type CompressionPort interface {
	// Compress reduces data size.
	// Returns compressed data and any error that occurred.
	Compress(data []byte) ([]byte, error)

	// Decompress restores original data. A positive limit bounds the
	// output: data that inflates beyond limit bytes fails without being
	// fully decoded. 0 means no limit.
	// Returns decompressed data and any error that occurred.
	Decompress(data []byte, limit int) ([]byte, error)

	// Close cleans up compression resources.
	Close() error

	// Name returns the codec name.
	Name() string
}
