package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies the failures that can surface from channel
// factories, channels and digest runs. Every error returned by this module's
// public packages carries exactly one category.
type ErrorCategory int

const (
	// ErrorInvalidArgument indicates malformed construction input, such as a
	// missing backing description or an out of range option. Never retried.
	ErrorInvalidArgument ErrorCategory = iota + 1

	// ErrorBackingUnavailable indicates the backing resource of a factory is
	// missing or inaccessible at create time (deleted file, permissions).
	ErrorBackingUnavailable

	// ErrorUnsupportedAlgorithm indicates an unknown algorithm name was given
	// to a calculator. Raised at construction, never at digest time.
	ErrorUnsupportedAlgorithm

	// ErrorNonWritable indicates an attempted mutation of an immutable channel.
	ErrorNonWritable

	// ErrorChannelRead indicates an I/O failure while streaming a channel
	// through the digest engine. The whole run is discarded.
	ErrorChannelRead

	// ErrorMalformedDescriptor indicates a serialized factory descriptor
	// failed validation on decode.
	ErrorMalformedDescriptor
)

// Category sentinels, usable with errors.Is against any *KFFError.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrBackingUnavailable   = errors.New("backing unavailable")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrNonWritable          = errors.New("channel is not writable")
	ErrChannelRead          = errors.New("channel read failed")
	ErrMalformedDescriptor  = errors.New("malformed descriptor")
)

// String returns the string representation of the error category.
// This is useful for logging, metrics labels, and error reporting.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorInvalidArgument:
		return "invalid_argument"
	case ErrorBackingUnavailable:
		return "backing_unavailable"
	case ErrorUnsupportedAlgorithm:
		return "unsupported_algorithm"
	case ErrorNonWritable:
		return "non_writable"
	case ErrorChannelRead:
		return "channel_read"
	case ErrorMalformedDescriptor:
		return "malformed_descriptor"
	default:
		return "unknown"
	}
}

// Sentinel returns the package level sentinel matching the category.
func (c ErrorCategory) Sentinel() error {
	switch c {
	case ErrorInvalidArgument:
		return ErrInvalidArgument
	case ErrorBackingUnavailable:
		return ErrBackingUnavailable
	case ErrorUnsupportedAlgorithm:
		return ErrUnsupportedAlgorithm
	case ErrorNonWritable:
		return ErrNonWritable
	case ErrorChannelRead:
		return ErrChannelRead
	case ErrorMalformedDescriptor:
		return ErrMalformedDescriptor
	default:
		return nil
	}
}

type KFFError struct {
	Err       error
	Operation string
	Timestamp time.Time
	Category  ErrorCategory
}

// New returns a categorized error for the named operation.
func New(category ErrorCategory, operation string, err error) *KFFError {
	if err == nil {
		err = category.Sentinel()
	}
	return &KFFError{Err: err, Operation: operation, Timestamp: time.Now(), Category: category}
}

// Newf is New with a formatted cause.
func Newf(category ErrorCategory, operation string, format string, args ...any) *KFFError {
	return New(category, operation, fmt.Errorf(format, args...))
}

func (e *KFFError) Error() string {
	return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
}

func (e *KFFError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's category.
func (e *KFFError) Is(target error) bool {
	sentinel := e.Category.Sentinel()
	return sentinel != nil && target == sentinel
}

// IsRetryAble returns whether errors of this category can be retried.
// The module itself never retries; this only informs callers.
func (e *KFFError) IsRetryAble() bool {
	switch e.Category {
	case ErrorBackingUnavailable:
		// The backing may come back (file restored, permissions fixed).
		return true
	default:
		return false
	}
}

// CategoryOf extracts the category of err, or 0 when err carries none.
func CategoryOf(err error) ErrorCategory {
	var ke *KFFError
	if errors.As(err, &ke) {
		return ke.Category
	}
	return 0
}
