package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// sha2 covers every SHA-2 variant; they only differ in constructor and
// output size.
type sha2 struct {
	name    string
	size    int
	newHash func() hash.Hash
}

func NewSHA224() *sha2 {
	return &sha2{name: string(SHA224), size: sha256.Size224, newHash: sha256.New224}
}

func NewSHA256() *sha2 {
	return &sha2{name: string(SHA256), size: sha256.Size, newHash: sha256.New}
}

func NewSHA384() *sha2 {
	return &sha2{name: string(SHA384), size: sha512.Size384, newHash: sha512.New384}
}

func NewSHA512() *sha2 {
	return &sha2{name: string(SHA512), size: sha512.Size, newHash: sha512.New}
}

func NewSHA512_224() *sha2 {
	return &sha2{name: string(SHA512_224), size: sha512.Size224, newHash: sha512.New512_224}
}

func NewSHA512_256() *sha2 {
	return &sha2{name: string(SHA512_256), size: sha512.Size256, newHash: sha512.New512_256}
}

func (s *sha2) New() hash.Hash {
	return s.newHash()
}

func (s *sha2) Size() int {
	return s.size
}

func (s *sha2) Name() string {
	return s.name
}
