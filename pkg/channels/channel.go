// Package channels provides read-only, shareable access to payload bytes.
//
// A Factory describes where the bytes live (a file or an in-memory buffer)
// and hands out independent Channels over them. Factories are safe for
// concurrent use and are typically held for the lifetime of the document
// that owns the payload; a Channel is a short-lived, positioned view that
// belongs to exactly one consumer and must be closed after use.
//
// Every constructor in this package returns an immutable factory: channels
// it creates reject Write and Truncate with a non_writable error, whatever
// the backing.
package channels

import (
	"errors"
	"io"
)

// ErrClosed is returned by every channel operation performed after Close,
// except IsOpen and Close itself.
var ErrClosed = errors.New("channels: channel is closed")

// Channel is a positioned, seekable handle to payload bytes. Reads at the
// end of the data return io.EOF. A Channel is not safe for concurrent use.
type Channel interface {
	io.Reader
	io.ReaderAt
	io.Writer
	io.Seeker
	io.Closer

	// Position returns the offset the next Read starts at.
	Position() (int64, error)

	// SetPosition moves the read offset. Positions past the end are allowed
	// and make the next Read return io.EOF.
	SetPosition(pos int64) error

	// Size returns the current length of the data.
	Size() (int64, error)

	// Truncate shortens the data to size bytes.
	Truncate(size int64) error

	// IsOpen reports whether Close has not been called yet.
	IsOpen() bool
}

// Factory creates independent channels over one backing.
type Factory interface {
	// Create opens a new channel positioned at offset 0. It fails with a
	// backing_unavailable error when the backing cannot be opened.
	Create() (Channel, error)
}
