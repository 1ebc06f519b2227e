package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/pierrec/lz4/v4"
)

// LZ4Compression implements CompressionPort with the lz4 frame format.
// Every call uses its own writer or reader, so it is safe for concurrent use.
type LZ4Compression struct{}

func NewLZ4Compression() *LZ4Compression {
	return &LZ4Compression{}
}

func (l *LZ4Compression) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

func (l *LZ4Compression) Decompress(data []byte, limit int) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))

	if limit <= 0 {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, reader); err != nil {
			return nil, fmt.Errorf("decompression failed: %w", err)
		}
		return buf.Bytes(), nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, min(limit, maxPrealloc)))
	n, err := io.CopyN(buf, reader, int64(limit)+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	if n > int64(limit) {
		return nil, exceeds(limit)
	}
	return buf.Bytes(), nil
}

func (l *LZ4Compression) Close() error { return nil }

func (l *LZ4Compression) Name() string {
	return domain.CodecLZ4.String()
}
