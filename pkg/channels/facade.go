package channels

import (
	"errors"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
)

// Memory returns an immutable factory over data. The slice is shared, not
// copied, by every channel; callers must not modify it afterwards. A nil
// slice is rejected, an empty one is a valid empty payload.
func Memory(data []byte) (Factory, error) {
	if data == nil {
		return nil, kfferrors.InvalidArgument("new memory factory", "data", nil, errors.New("must not be nil"))
	}
	return &immutableFactory{inner: newMemoryFactory(data)}, nil
}

// File returns an immutable factory opening path with options on every
// Create. The file is not touched until then.
//
// Options reach the open call unchanged, so their side effects happen on
// every Create even though the channels reject writes: TruncateExisting
// empties the file each time and CreateNew fails once the file exists. Use
// FileReadOnly for payloads that must survive.
func File(path string, options fs.OpenOptions) (Factory, error) {
	if path == "" {
		return nil, kfferrors.InvalidArgument("new file factory", "path", path, errors.New("must not be empty"))
	}
	if !options.Valid() {
		return nil, kfferrors.InvalidArgument("new file factory", "options", options, errors.New("unknown open option bits"))
	}
	return &immutableFactory{inner: newFileFactory(path, options)}, nil
}

// FileReadOnly is File with fs.ReadOnly.
func FileReadOnly(path string) (Factory, error) {
	return File(path, fs.ReadOnly)
}

// Immutable wraps f so that its channels reject writes. Wrapping an
// already immutable factory returns it unchanged.
func Immutable(f Factory) (Factory, error) {
	if f == nil {
		return nil, kfferrors.InvalidArgument("new immutable factory", "factory", nil, errors.New("must not be nil"))
	}
	if im, ok := f.(*immutableFactory); ok {
		return im, nil
	}
	return &immutableFactory{inner: f}, nil
}
