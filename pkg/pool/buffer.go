package pool

import (
	"sync"
)

// BlockPool manages a pool of fixed-size read blocks.
type BlockPool struct {
	size int       // Size of each block.
	pool sync.Pool // Thread-safe pool of blocks.
}

// Creates a new block pool handing out blocks of exactly size bytes.
func NewBlockPool(size int) *BlockPool {
	return &BlockPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				block := make([]byte, size)
				return &block
			},
		},
	}
}

// Size returns the length of every block handed out by the pool.
func (bp *BlockPool) Size() int {
	return bp.size
}

// Retrieves a block from the pool.
func (bp *BlockPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

// Returns a block to the pool.
func (bp *BlockPool) Put(block *[]byte) {
	// Don't pool blocks that were resliced to another size.
	if block == nil || len(*block) != bp.size {
		return
	}

	clear(*block)
	bp.pool.Put(block)
}
