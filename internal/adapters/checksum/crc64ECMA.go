package checksum

import (
	"hash"
	"hash/crc64"
)

type crc64ECMA struct {
	name  string
	table *crc64.Table
}

func NewCRC64ECMA() *crc64ECMA {
	return &crc64ECMA{
		name:  string(CRC64ECMA),
		table: crc64.MakeTable(crc64.ECMA),
	}
}

func (c *crc64ECMA) New() hash.Hash {
	return crc64.New(c.table)
}

func (c *crc64ECMA) Size() int {
	return crc64.Size
}

func (c *crc64ECMA) Name() string {
	return c.name
}
