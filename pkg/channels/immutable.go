package channels

import (
	"errors"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

var (
	errNegative      = errors.New("must not be negative")
	errUnknownWhence = errors.New("unknown whence")
)

// immutableFactory wraps any factory so that none of its channels can
// modify the payload.
type immutableFactory struct {
	inner Factory
}

func (f *immutableFactory) Create() (Channel, error) {
	ch, err := f.inner.Create()
	if err != nil {
		return nil, err
	}
	return &immutableChannel{inner: ch}, nil
}

// immutableChannel is the only channel type callers ever see, whatever
// backs it.
type immutableChannel struct {
	inner Channel
}

func (c *immutableChannel) Read(p []byte) (int, error) {
	return c.inner.Read(p)
}

func (c *immutableChannel) ReadAt(p []byte, off int64) (int, error) {
	return c.inner.ReadAt(p, off)
}

func (c *immutableChannel) Write([]byte) (int, error) {
	return 0, kfferrors.New(kfferrors.ErrorNonWritable, "write", nil)
}

func (c *immutableChannel) Truncate(int64) error {
	return kfferrors.New(kfferrors.ErrorNonWritable, "truncate", nil)
}

func (c *immutableChannel) Seek(offset int64, whence int) (int64, error) {
	return c.inner.Seek(offset, whence)
}

func (c *immutableChannel) Position() (int64, error) {
	return c.inner.Position()
}

func (c *immutableChannel) SetPosition(pos int64) error {
	return c.inner.SetPosition(pos)
}

func (c *immutableChannel) Size() (int64, error) {
	return c.inner.Size()
}

func (c *immutableChannel) IsOpen() bool {
	return c.inner.IsOpen()
}

func (c *immutableChannel) Close() error {
	return c.inner.Close()
}

// unwrap strips immutability layers and returns the backing factory.
func unwrap(f Factory) Factory {
	for {
		im, ok := f.(*immutableFactory)
		if !ok {
			return f
		}
		f = im.inner
	}
}
