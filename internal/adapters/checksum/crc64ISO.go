package checksum

import (
	"hash"
	"hash/crc64"
)

type crc64ISO struct {
	name  string
	table *crc64.Table
}

func NewCRC64ISO() *crc64ISO {
	return &crc64ISO{
		name:  string(CRC64ISO),
		table: crc64.MakeTable(crc64.ISO),
	}
}

func (c *crc64ISO) New() hash.Hash {
	return crc64.New(c.table)
}

func (c *crc64ISO) Size() int {
	return crc64.Size
}

func (c *crc64ISO) Name() string {
	return c.name
}
