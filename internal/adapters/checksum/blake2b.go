package checksum

import (
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/iamNilotpal/kff/internal/core/domain"
)

type blake2 struct {
	name string
	size int
}

// NewBLAKE2b returns the adapter for an unkeyed BLAKE2b algorithm. It panics
// for any other name.
func NewBLAKE2b(alg domain.ChecksumAlgorithm) *blake2 {
	switch alg {
	case BLAKE2b256:
		return &blake2{name: string(alg), size: blake2b.Size256}
	case BLAKE2b512:
		return &blake2{name: string(alg), size: blake2b.Size}
	default:
		panic(fmt.Sprintf("checksum: %s is not a BLAKE2b algorithm", alg))
	}
}

func (b *blake2) New() hash.Hash {
	// Only a key longer than 64 bytes fails, and these engines are unkeyed.
	h, err := blake2b.New(b.size, nil)
	if err != nil {
		panic(err)
	}
	return h
}

func (b *blake2) Size() int {
	return b.size
}

func (b *blake2) Name() string {
	return b.name
}
