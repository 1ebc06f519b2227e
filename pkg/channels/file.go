package channels

import (
	"io"
	"os"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
)

// fileFactory opens a fresh handle to path for every channel. Nothing is
// checked until the first Create.
type fileFactory struct {
	path    string
	options fs.OpenOptions
}

func newFileFactory(path string, options fs.OpenOptions) *fileFactory {
	return &fileFactory{path: path, options: options}
}

func (f *fileFactory) Create() (Channel, error) {
	file, err := fs.OpenFile(f.path, f.options)
	if err != nil {
		return nil, kfferrors.New(kfferrors.ErrorBackingUnavailable, "create file channel", err)
	}
	return &fileChannel{file: file}, nil
}

type fileChannel struct {
	file   *os.File
	closed bool
}

func (c *fileChannel) Read(p []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return c.file.Read(p)
}

func (c *fileChannel) ReadAt(p []byte, off int64) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, kfferrors.InvalidArgument("read at", "offset", off, errNegative)
	}
	return c.file.ReadAt(p, off)
}

func (c *fileChannel) Write(p []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return c.file.Write(p)
}

func (c *fileChannel) Truncate(size int64) error {
	if c.closed {
		return ErrClosed
	}
	if size < 0 {
		return kfferrors.InvalidArgument("truncate", "size", size, errNegative)
	}
	return c.file.Truncate(size)
}

func (c *fileChannel) Seek(offset int64, whence int) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, kfferrors.InvalidArgument("seek", "whence", whence, errUnknownWhence)
	}

	if whence == io.SeekStart && offset < 0 {
		return 0, kfferrors.InvalidArgument("seek", "position", offset, errNegative)
	}
	return c.file.Seek(offset, whence)
}

func (c *fileChannel) Position() (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return c.file.Seek(0, io.SeekCurrent)
}

func (c *fileChannel) SetPosition(pos int64) error {
	_, err := c.Seek(pos, io.SeekStart)
	return err
}

func (c *fileChannel) Size() (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	stat, err := c.file.Stat()
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

func (c *fileChannel) IsOpen() bool {
	return !c.closed
}

func (c *fileChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}
