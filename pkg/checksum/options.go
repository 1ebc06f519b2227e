package checksum

import (
	"math"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/iamNilotpal/kff/internal/core/ports"
	"github.com/iamNilotpal/kff/internal/metrics"
)

// Option tunes a Calculator at construction.
type Option func(*domain.ChecksumOptions)

// WithCRC turns the CRC32 checksum on or off.
func WithCRC(on bool) Option {
	return func(o *domain.ChecksumOptions) {
		o.UseCRC = on
	}
}

// WithSsdeep turns the fuzzy hash on or off.
func WithSsdeep(on bool) Option {
	return func(o *domain.ChecksumOptions) {
		o.UseSsdeep = on
	}
}

// WithBlockSize sets the size of the blocks channels are read in. It must
// lie between 512 bytes and 4 MiB; results never depend on it.
func WithBlockSize(size int) Option {
	return func(o *domain.ChecksumOptions) {
		if size < 0 || uint64(size) > math.MaxUint32 {
			// Out of range either way; let validation report it.
			size = 0
		}
		o.BlockSize = uint32(size)
	}
}

// WithMetrics records every digest run in m.
func WithMetrics(m *metrics.Metrics) Option {
	if m == nil {
		return WithObserver(nil)
	}
	return WithObserver(m)
}

// WithObserver reports every digest run to observer.
func WithObserver(observer ports.DigestObserver) Option {
	return func(o *domain.ChecksumOptions) {
		o.Observer = observer
	}
}
