package compression

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressible(n int) []byte {
	return bytes.Repeat([]byte("content identity "), n/17+1)[:n]
}

func TestRoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	noise := make([]byte, 10000)
	random.Read(noise)

	payloads := map[string][]byte{
		"empty":        {},
		"single byte":  {0x42},
		"compressible": compressible(64 * 1024),
		"random":       noise,
	}

	for _, codec := range []domain.CompressionCodec{domain.CodecNone, domain.CodecZstd, domain.CodecLZ4, domain.CodecSnappy} {
		c, err := ForCodec(codec)
		require.NoError(t, err)
		assert.Equal(t, codec.String(), c.Name())

		for name, payload := range payloads {
			t.Run(codec.String()+"/"+name, func(t *testing.T) {
				compressed, err := c.Compress(payload)
				require.NoError(t, err)

				restored, err := c.Decompress(compressed, len(payload))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(payload, restored))
			})
		}

		require.NoError(t, c.Close())
	}
}

func TestCompressibleDataShrinks(t *testing.T) {
	payload := compressible(64 * 1024)

	for _, codec := range []domain.CompressionCodec{domain.CodecZstd, domain.CodecLZ4, domain.CodecSnappy} {
		c, err := ForCodec(codec)
		require.NoError(t, err)

		compressed, err := c.Compress(payload)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload)/4, codec.String())
		require.NoError(t, c.Close())
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	garbage := []byte("definitely not a compressed frame")

	for _, codec := range []domain.CompressionCodec{domain.CodecZstd, domain.CodecLZ4, domain.CodecSnappy} {
		c, err := ForCodec(codec)
		require.NoError(t, err)

		_, err = c.Decompress(garbage, 0)
		assert.Error(t, err, codec.String())
		require.NoError(t, c.Close())
	}
}

func TestDecompressStopsAtLimit(t *testing.T) {
	sizes := map[string]int{
		"below decoder floor": 512 * 1024,
		"above decoder floor": 8 << 20,
	}

	for _, codec := range []domain.CompressionCodec{domain.CodecNone, domain.CodecZstd, domain.CodecLZ4, domain.CodecSnappy} {
		c, err := ForCodec(codec)
		require.NoError(t, err)

		for name, size := range sizes {
			t.Run(codec.String()+"/"+name, func(t *testing.T) {
				payload := make([]byte, size)
				compressed, err := c.Compress(payload)
				require.NoError(t, err)

				_, err = c.Decompress(compressed, 16)
				assert.ErrorIs(t, err, ErrLimitExceeded)

				_, err = c.Decompress(compressed, size-1)
				assert.ErrorIs(t, err, ErrLimitExceeded)

				restored, err := c.Decompress(compressed, size)
				require.NoError(t, err)
				assert.Len(t, restored, size)
			})
		}

		require.NoError(t, c.Close())
	}
}

func TestPassthroughCopies(t *testing.T) {
	c, err := ForCodec(domain.CodecNone)
	require.NoError(t, err)

	payload := []byte("abc")
	out, err := c.Compress(payload)
	require.NoError(t, err)

	out[0] = 'x'
	assert.Equal(t, []byte("abc"), payload)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		opts    domain.CompressionOptions
		wantErr bool
	}{
		"defaults":            {*DefaultOptions(), false},
		"zstd level too low":  {domain.CompressionOptions{Codec: domain.CodecZstd, Level: 0}, true},
		"zstd level too high": {domain.CompressionOptions{Codec: domain.CodecZstd, Level: BestLevel + 1}, true},
		"lz4 ignores level":   {domain.CompressionOptions{Codec: domain.CodecLZ4}, false},
		"none ignores level":  {domain.CompressionOptions{Codec: domain.CodecNone}, false},
		"unknown codec":       {domain.CompressionOptions{Codec: domain.CompressionCodec(9)}, true},
		"too many encoders":   {domain.CompressionOptions{Codec: domain.CodecZstd, Level: 1, EncoderConcurrency: 255}, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(&test.opts)
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestZstdConcurrentUse(t *testing.T) {
	z, err := NewZstdCompression(&domain.CompressionOptions{Level: DefaultLevel})
	require.NoError(t, err)
	defer z.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := compressible(1000 + i*100)

			compressed, err := z.Compress(payload)
			assert.NoError(t, err)

			restored, err := z.Decompress(compressed, 0)
			assert.NoError(t, err)
			assert.Equal(t, payload, restored)
		}(i)
	}
	wg.Wait()
}

func TestZstdClosed(t *testing.T) {
	z, err := NewZstdCompression(&domain.CompressionOptions{Level: FastestLevel})
	require.NoError(t, err)
	assert.Equal(t, FastestLevel, z.Level())

	require.NoError(t, z.Close())
	require.NoError(t, z.Close())

	_, err = z.Compress([]byte("data"))
	assert.Error(t, err)
}
