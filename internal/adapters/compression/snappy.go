package compression

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/iamNilotpal/kff/internal/core/domain"
)

// SnappyCompression implements CompressionPort with the snappy block
// format. It is stateless and safe for concurrent use.
type SnappyCompression struct{}

func NewSnappyCompression() *SnappyCompression {
	return &SnappyCompression{}
}

func (s *SnappyCompression) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (s *SnappyCompression) Decompress(data []byte, limit int) ([]byte, error) {
	if limit > 0 {
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, fmt.Errorf("decompression failed: %w", err)
		}
		if n > limit {
			return nil, exceeds(limit)
		}
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	return decoded, nil
}

func (s *SnappyCompression) Close() error { return nil }

func (s *SnappyCompression) Name() string {
	return domain.CodecSnappy.String()
}
