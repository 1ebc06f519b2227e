package checksum

import (
	"fmt"
	"hash"

	sha3_lib "golang.org/x/crypto/sha3"

	"github.com/iamNilotpal/kff/internal/core/domain"
)

type sha3 struct {
	name    string
	size    int
	newHash func() hash.Hash
}

// NewSHA3 returns the adapter for one of the SHA3-* algorithms. It panics
// for any other name.
func NewSHA3(alg domain.ChecksumAlgorithm) *sha3 {
	switch alg {
	case SHA3_224:
		return &sha3{name: string(alg), size: 28, newHash: sha3_lib.New224}
	case SHA3_256:
		return &sha3{name: string(alg), size: 32, newHash: sha3_lib.New256}
	case SHA3_384:
		return &sha3{name: string(alg), size: 48, newHash: sha3_lib.New384}
	case SHA3_512:
		return &sha3{name: string(alg), size: 64, newHash: sha3_lib.New512}
	default:
		panic(fmt.Sprintf("checksum: %s is not a SHA-3 algorithm", alg))
	}
}

func (s *sha3) New() hash.Hash {
	return s.newHash()
}

func (s *sha3) Size() int {
	return s.size
}

func (s *sha3) Name() string {
	return s.name
}
