package channels

import (
	"errors"

	domaincfg "github.com/iamNilotpal/kff/internal/core/domain/config"
	"github.com/iamNilotpal/kff/internal/serialize"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
)

// Handle embeds a factory in documents encoded as binary, CBOR or JSON.
// Decoding any of the encodings always yields an immutable factory.
type Handle struct {
	Factory Factory
}

// record is the structured form of a descriptor used by the CBOR and JSON
// encodings. Memory payloads travel uncompressed.
type record struct {
	Version int      `json:"version" cbor:"version"`
	Kind    string   `json:"kind" cbor:"kind"`
	Path    string   `json:"path,omitempty" cbor:"path,omitempty"`
	Options []string `json:"options,omitempty" cbor:"options,omitempty"`
	Data    []byte   `json:"data,omitempty" cbor:"data,omitempty"`
}

var errEmptyHandle = errors.New("handle holds no factory")

func (h Handle) MarshalBinary() ([]byte, error) {
	if h.Factory == nil {
		return nil, kfferrors.InvalidArgument("marshal handle", "factory", nil, errEmptyHandle)
	}
	return Marshal(h.Factory)
}

func (h *Handle) UnmarshalBinary(data []byte) error {
	f, err := Unmarshal(data)
	if err != nil {
		return err
	}
	h.Factory = f
	return nil
}

func (h Handle) MarshalCBOR() ([]byte, error) {
	r, err := h.record()
	if err != nil {
		return nil, err
	}
	return serialize.MarshalCBOR(r)
}

func (h *Handle) UnmarshalCBOR(data []byte) error {
	var r record
	if err := serialize.UnMarshalCBOR(data, &r); err != nil {
		return malformed("cbor: %v", err)
	}
	return h.fromRecord(&r)
}

func (h Handle) MarshalJSON() ([]byte, error) {
	r, err := h.record()
	if err != nil {
		return nil, err
	}
	return serialize.MarshalJSON(r)
}

func (h *Handle) UnmarshalJSON(data []byte) error {
	var r record
	if err := serialize.UnMarshalJSON(data, &r); err != nil {
		return malformed("json: %v", err)
	}
	return h.fromRecord(&r)
}

func (h Handle) record() (*record, error) {
	if h.Factory == nil {
		return nil, kfferrors.InvalidArgument("marshal handle", "factory", nil, errEmptyHandle)
	}

	desc, err := Describe(h.Factory)
	if err != nil {
		return nil, err
	}

	r := &record{Version: domaincfg.MaxVersion, Kind: desc.Kind.String()}
	switch desc.Kind {
	case KindMemory:
		r.Data = desc.Data
	case KindFile:
		r.Path = desc.Path
		r.Options = desc.Options.Names()
	}
	return r, nil
}

func (h *Handle) fromRecord(r *record) error {
	if r.Version < domaincfg.MinVersion || r.Version > domaincfg.MaxVersion {
		return malformed("unsupported descriptor version %d", r.Version)
	}

	kind, err := parseKind(r.Kind)
	if err != nil {
		return malformed("%v", err)
	}

	desc := &Descriptor{Kind: kind}
	switch kind {
	case KindMemory:
		desc.Data = r.Data
	case KindFile:
		options, err := fs.ParseOpenOptions(r.Options)
		if err != nil {
			return malformed("file backing: %v", err)
		}
		desc.Path = r.Path
		desc.Options = options
	}

	f, err := desc.Factory()
	if err != nil {
		return err
	}
	h.Factory = f
	return nil
}
