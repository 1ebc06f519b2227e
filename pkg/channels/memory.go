package channels

import (
	"io"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

// memoryFactory shares one byte slice between all channels it creates.
// The slice is never copied and never written to.
type memoryFactory struct {
	data []byte
}

func newMemoryFactory(data []byte) *memoryFactory {
	return &memoryFactory{data: data}
}

func (f *memoryFactory) Create() (Channel, error) {
	return &memoryChannel{data: f.data}, nil
}

type memoryChannel struct {
	data   []byte
	pos    int64
	closed bool
}

func (c *memoryChannel) Read(p []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if c.pos >= int64(len(c.data)) {
		return 0, io.EOF
	}

	n := copy(p, c.data[c.pos:])
	c.pos += int64(n)
	return n, nil
}

func (c *memoryChannel) ReadAt(p []byte, off int64) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, kfferrors.InvalidArgument("read at", "offset", off, errNegative)
	}
	if off >= int64(len(c.data)) {
		return 0, io.EOF
	}

	n := copy(p, c.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// The shared slice is read-only for every channel, wrapped or not.
func (c *memoryChannel) Write([]byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return 0, kfferrors.New(kfferrors.ErrorNonWritable, "write memory channel", nil)
}

func (c *memoryChannel) Truncate(int64) error {
	if c.closed {
		return ErrClosed
	}
	return kfferrors.New(kfferrors.ErrorNonWritable, "truncate memory channel", nil)
}

func (c *memoryChannel) Seek(offset int64, whence int) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = c.pos + offset
	case io.SeekEnd:
		abs = int64(len(c.data)) + offset
	default:
		return 0, kfferrors.InvalidArgument("seek", "whence", whence, errUnknownWhence)
	}

	if abs < 0 {
		return 0, kfferrors.InvalidArgument("seek", "position", abs, errNegative)
	}
	c.pos = abs
	return abs, nil
}

func (c *memoryChannel) Position() (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return c.pos, nil
}

func (c *memoryChannel) SetPosition(pos int64) error {
	_, err := c.Seek(pos, io.SeekStart)
	return err
}

func (c *memoryChannel) Size() (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return int64(len(c.data)), nil
}

func (c *memoryChannel) IsOpen() bool {
	return !c.closed
}

func (c *memoryChannel) Close() error {
	c.closed = true
	return nil
}
