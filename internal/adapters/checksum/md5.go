package checksum

import (
	md5_lib "crypto/md5"
	"hash"
)

type md5 struct {
	name string
}

func NewMD5() *md5 {
	return &md5{name: string(MD5)}
}

func (m *md5) New() hash.Hash {
	return md5_lib.New()
}

func (m *md5) Size() int {
	return md5_lib.Size
}

func (m *md5) Name() string {
	return m.name
}
