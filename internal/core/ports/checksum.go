package ports

import (
	"hash"
	"time"
)

// Digester builds hash engines for one named algorithm.
type Digester interface {
	// Name returns the canonical algorithm name.
	Name() string

	// Size returns the length in bytes of the digests the engines produce.
	Size() int

	// New returns a fresh engine. Engines are never shared between digest
	// runs, so implementations need no locking.
	New() hash.Hash
}

// DigestObserver is notified once per digest run, successful or not.
type DigestObserver interface {
	// ObserveDigest reports a run over size bytes read from source
	// ("buffer" or "channel"). err is nil for successful runs.
	ObserveDigest(source string, size int64, elapsed time.Duration, err error)
}
