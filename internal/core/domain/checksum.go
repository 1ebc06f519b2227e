// Package domain defines the core types shared by the digest engine, its
// algorithm adapters and the descriptor transport codecs.
package domain

import (
	"github.com/iamNilotpal/kff/internal/core/ports"
)

// ChecksumAlgorithm is the canonical name of a supported digest algorithm,
// e.g. "SHA-256" or "CRC32".
type ChecksumAlgorithm string

// AlgorithmKind tells how a calculator reports an algorithm's output.
type AlgorithmKind uint8

const (
	// KindCryptographic algorithms produce raw digest bytes, reported per
	// name in the results.
	KindCryptographic AlgorithmKind = iota + 1

	// KindChecksum is the 32-bit running checksum reported through its own
	// numeric accessor.
	KindChecksum

	// KindFuzzy is the similarity hash reported through its own string
	// accessor.
	KindFuzzy
)

func (k AlgorithmKind) String() string {
	switch k {
	case KindCryptographic:
		return "cryptographic"
	case KindChecksum:
		return "checksum"
	case KindFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// ChecksumOptions defines the configuration of a checksum calculator.
type ChecksumOptions struct {
	// Algorithms lists the requested algorithms in the order results must
	// report them. Names may include the checksum and fuzzy algorithms, which
	// switch the matching toggle on.
	Algorithms []ChecksumAlgorithm

	// UseCRC computes the 32-bit checksum in addition to the named
	// algorithms. Can be changed on the calculator after construction.
	//
	// Default: true for the default configuration, false otherwise.
	UseCRC bool

	// UseSsdeep computes the fuzzy hash in addition to the named algorithms.
	// Can be changed on the calculator after construction.
	//
	// Default: false
	UseSsdeep bool

	// BlockSize is the size of the blocks a channel is read in while
	// streaming. It never influences results, only memory use and the
	// number of read calls.
	//
	// Default: 32KB
	BlockSize uint32

	// Observer, when set, is notified about every digest run.
	Observer ports.DigestObserver
}
