package channels

import (
	"bytes"
	"fmt"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
)

// Kind names the backing of a factory.
type Kind uint8

const (
	KindMemory Kind = iota + 1
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func parseKind(name string) (Kind, error) {
	switch name {
	case "memory":
		return KindMemory, nil
	case "file":
		return KindFile, nil
	default:
		return 0, fmt.Errorf("unknown backing kind %q", name)
	}
}

// Descriptor is the backing description of a factory. Two factories with
// equal descriptors create channels over the same bytes.
type Descriptor struct {
	Kind Kind

	// Path and Options are set for KindFile.
	Path    string
	Options fs.OpenOptions

	// Data is set for KindMemory. It aliases the factory's bytes and must be
	// treated as read-only.
	Data []byte
}

// Describe returns the descriptor of a factory built by this package.
func Describe(f Factory) (*Descriptor, error) {
	if f == nil {
		return nil, kfferrors.InvalidArgument("describe", "factory", nil, fmt.Errorf("must not be nil"))
	}

	switch backing := unwrap(f).(type) {
	case *memoryFactory:
		return &Descriptor{Kind: KindMemory, Data: backing.data}, nil
	case *fileFactory:
		return &Descriptor{Kind: KindFile, Path: backing.path, Options: backing.options}, nil
	default:
		return nil, kfferrors.InvalidArgument(
			"describe", "factory", fmt.Sprintf("%T", backing), fmt.Errorf("backing cannot be described"),
		)
	}
}

// Equal reports whether two factories describe the same backing. Factories
// that cannot be described are never equal.
func Equal(a, b Factory) bool {
	da, err := Describe(a)
	if err != nil {
		return false
	}
	db, err := Describe(b)
	if err != nil {
		return false
	}
	return da.Equal(db)
}

// Equal compares two descriptors field by field.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case KindMemory:
		return bytes.Equal(d.Data, other.Data)
	case KindFile:
		return d.Path == other.Path && d.Options == other.Options
	default:
		return false
	}
}

// Factory validates the descriptor and builds the immutable factory it
// describes. The file system is never consulted; a missing file surfaces on
// the first Create.
func (d *Descriptor) Factory() (Factory, error) {
	switch d.Kind {
	case KindMemory:
		data := d.Data
		if data == nil {
			data = []byte{}
		}
		return &immutableFactory{inner: newMemoryFactory(data)}, nil
	case KindFile:
		if d.Path == "" {
			return nil, malformed("file descriptor without path")
		}
		if !d.Options.Valid() {
			return nil, malformed("unknown open option bits %#x", uint16(d.Options))
		}
		return &immutableFactory{inner: newFileFactory(d.Path, d.Options)}, nil
	default:
		return nil, malformed("unknown backing kind %d", uint8(d.Kind))
	}
}

func malformed(format string, args ...any) *kfferrors.KFFError {
	return kfferrors.Newf(kfferrors.ErrorMalformedDescriptor, "decode descriptor", format, args...)
}
