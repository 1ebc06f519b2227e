package checksum

import (
	sha1_lib "crypto/sha1"
	"hash"
)

type sha1 struct {
	name string
}

func NewSHA1() *sha1 {
	return &sha1{name: string(SHA1)}
}

func (s *sha1) New() hash.Hash {
	return sha1_lib.New()
}

func (s *sha1) Size() int {
	return sha1_lib.Size
}

func (s *sha1) Name() string {
	return s.name
}
