package checksum

import (
	"hash"

	"github.com/zeebo/blake3"
)

type blake3Digester struct {
	name string
}

func NewBLAKE3() *blake3Digester {
	return &blake3Digester{name: string(BLAKE3)}
}

func (b *blake3Digester) New() hash.Hash {
	return blake3.New()
}

func (b *blake3Digester) Size() int {
	return 32
}

func (b *blake3Digester) Name() string {
	return b.name
}
