package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockPoolHandsOutFixedSize(t *testing.T) {
	bp := NewBlockPool(512)
	assert.Equal(t, 512, bp.Size())

	block := bp.Get()
	require.NotNil(t, block)
	assert.Len(t, *block, 512)

	(*block)[0] = 0xff
	bp.Put(block)

	again := bp.Get()
	assert.Len(t, *again, 512)
	assert.Zero(t, (*again)[0], "returned blocks are cleared")
}

func TestBlockPoolDropsResizedBlocks(t *testing.T) {
	bp := NewBlockPool(64)
	resized := make([]byte, 32)

	assert.NotPanics(t, func() {
		bp.Put(&resized)
		bp.Put(nil)
	})
	assert.Len(t, *bp.Get(), 64)
}

func TestBlockPoolConcurrentUse(t *testing.T) {
	bp := NewBlockPool(128)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(fill byte) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				block := bp.Get()
				for k := range *block {
					(*block)[k] = fill
				}
				for _, b := range *block {
					if b != fill {
						t.Errorf("block shared between goroutines")
						return
					}
				}
				bp.Put(block)
			}
		}(byte(i + 1))
	}
	wg.Wait()
}
