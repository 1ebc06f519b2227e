package checksum

import (
	"hash"
	"hash/crc32"
)

type crc32IEEE struct {
	name  string
	table *crc32.Table
}

func NewCRC32IEEE() *crc32IEEE {
	return &crc32IEEE{
		name:  string(CRC32),
		table: crc32.IEEETable,
	}
}

func (c *crc32IEEE) New() hash.Hash {
	return c.New32()
}

// New32 returns an engine whose Sum32 is the running checksum.
func (c *crc32IEEE) New32() hash.Hash32 {
	return crc32.New(c.table)
}

func (c *crc32IEEE) Size() int {
	return crc32.Size
}

func (c *crc32IEEE) Name() string {
	return c.name
}
