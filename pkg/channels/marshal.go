package channels

import (
	"fmt"
	"math"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iamNilotpal/kff/internal/adapters/compression"
	"github.com/iamNilotpal/kff/internal/core/domain"
	domaincfg "github.com/iamNilotpal/kff/internal/core/domain/config"
	"github.com/iamNilotpal/kff/internal/core/ports"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
)

// Codec selects how memory payloads are compressed by Marshal.
type Codec = domain.CompressionCodec

const (
	CodecNone   = domain.CodecNone
	CodecZstd   = domain.CodecZstd
	CodecLZ4    = domain.CodecLZ4
	CodecSnappy = domain.CodecSnappy
)

// Envelope field numbers. They are wire format and must never be reused.
const (
	fieldVersion    protowire.Number = 1
	fieldDecorators protowire.Number = 2
	fieldMemory     protowire.Number = 10
	fieldFile       protowire.Number = 11

	memoryData   protowire.Number = 1
	memoryCodec  protowire.Number = 2
	memoryLength protowire.Number = 3

	filePath   protowire.Number = 1
	fileOption protowire.Number = 2
)

// decoratorImmutable is the only decorator bit defined so far.
const decoratorImmutable uint64 = 1 << 0

type marshalConfig struct {
	codec     Codec
	level     uint8
	threshold uint32
}

// MarshalOption tunes Marshal.
type MarshalOption func(*marshalConfig)

// WithCompression selects the codec for memory payloads. CodecNone stores
// payloads verbatim.
func WithCompression(codec Codec) MarshalOption {
	return func(c *marshalConfig) {
		c.codec = codec
	}
}

// WithCompressionLevel sets the zstd level (1 fastest … 4 best).
func WithCompressionLevel(level uint8) MarshalOption {
	return func(c *marshalConfig) {
		c.level = level
	}
}

// WithCompressionThreshold sets the payload size below which payloads are
// stored verbatim.
func WithCompressionThreshold(threshold uint32) MarshalOption {
	return func(c *marshalConfig) {
		c.threshold = threshold
	}
}

// WithCompressionOptions applies codec, level and threshold from opts.
func WithCompressionOptions(opts *domain.CompressionOptions) MarshalOption {
	return func(c *marshalConfig) {
		c.codec = opts.Codec
		c.level = opts.Level
		c.threshold = opts.Threshold
	}
}

// Marshal serializes a factory into a self-contained binary descriptor.
// Memory payloads travel inside the descriptor, compressed when that makes
// them smaller; file factories carry their path and option names.
func Marshal(f Factory, opts ...MarshalOption) ([]byte, error) {
	desc, err := Describe(f)
	if err != nil {
		return nil, err
	}

	cfg := marshalConfig{
		codec:     CodecZstd,
		level:     compression.DefaultLevel,
		threshold: domaincfg.CompressionThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, domaincfg.MaxVersion)
	b = protowire.AppendTag(b, fieldDecorators, protowire.VarintType)
	b = protowire.AppendVarint(b, decoratorImmutable)

	switch desc.Kind {
	case KindMemory:
		payload, codec, err := compressPayload(desc.Data, cfg)
		if err != nil {
			return nil, err
		}

		var m []byte
		m = protowire.AppendTag(m, memoryData, protowire.BytesType)
		m = protowire.AppendBytes(m, payload)
		m = protowire.AppendTag(m, memoryCodec, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(codec))
		m = protowire.AppendTag(m, memoryLength, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(len(desc.Data)))

		b = protowire.AppendTag(b, fieldMemory, protowire.BytesType)
		b = protowire.AppendBytes(b, m)

	case KindFile:
		var m []byte
		m = protowire.AppendTag(m, filePath, protowire.BytesType)
		m = protowire.AppendString(m, desc.Path)
		for _, name := range desc.Options.Names() {
			m = protowire.AppendTag(m, fileOption, protowire.BytesType)
			m = protowire.AppendString(m, name)
		}

		b = protowire.AppendTag(b, fieldFile, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}

	return b, nil
}

// Unmarshal rebuilds the factory a Marshal call serialized. The result is
// always immutable. The file system is not consulted; a missing file
// surfaces as backing_unavailable on the first Create.
func Unmarshal(data []byte) (Factory, error) {
	var (
		version            uint64
		sawVersion         bool
		memory, file       []byte
		sawMemory, sawFile bool
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformed("envelope: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			version, n = protowire.ConsumeVarint(data)
			sawVersion = true
		case num == fieldDecorators && typ == protowire.VarintType:
			// Every decoded factory is immutable, whatever the bits say.
			_, n = protowire.ConsumeVarint(data)
		case num == fieldMemory && typ == protowire.BytesType:
			if sawMemory || sawFile {
				return nil, malformed("envelope holds more than one backing")
			}
			memory, n = protowire.ConsumeBytes(data)
			sawMemory = true
		case num == fieldFile && typ == protowire.BytesType:
			if sawMemory || sawFile {
				return nil, malformed("envelope holds more than one backing")
			}
			file, n = protowire.ConsumeBytes(data)
			sawFile = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return nil, malformed("envelope field %d: %v", num, protowire.ParseError(n))
		}
		data = data[n:]
	}

	if !sawVersion {
		return nil, malformed("envelope without version")
	}
	if version < domaincfg.MinVersion || version > domaincfg.MaxVersion {
		return nil, malformed("unsupported envelope version %d", version)
	}

	var (
		desc *Descriptor
		err  error
	)
	switch {
	case sawMemory:
		desc, err = decodeMemory(memory)
	case sawFile:
		desc, err = decodeFile(file)
	default:
		return nil, malformed("envelope without backing")
	}
	if err != nil {
		return nil, err
	}

	return desc.Factory()
}

func decodeMemory(data []byte) (*Descriptor, error) {
	var (
		payload   []byte
		codec     uint64
		length    uint64
		sawLength bool
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformed("memory backing: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == memoryData && typ == protowire.BytesType:
			payload, n = protowire.ConsumeBytes(data)
		case num == memoryCodec && typ == protowire.VarintType:
			codec, n = protowire.ConsumeVarint(data)
		case num == memoryLength && typ == protowire.VarintType:
			length, n = protowire.ConsumeVarint(data)
			sawLength = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return nil, malformed("memory backing field %d: %v", num, protowire.ParseError(n))
		}
		data = data[n:]
	}

	if codec > uint64(CodecSnappy) {
		return nil, malformed("unknown compression codec %d", codec)
	}
	if !sawLength {
		return nil, malformed("memory backing without length")
	}

	raw, err := decompressPayload(payload, Codec(codec), length)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Kind: KindMemory, Data: raw}, nil
}

func decodeFile(data []byte) (*Descriptor, error) {
	var (
		path  string
		names []string
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformed("file backing: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == filePath && typ == protowire.BytesType:
			path, n = protowire.ConsumeString(data)
		case num == fileOption && typ == protowire.BytesType:
			var name string
			name, n = protowire.ConsumeString(data)
			names = append(names, name)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return nil, malformed("file backing field %d: %v", num, protowire.ParseError(n))
		}
		data = data[n:]
	}

	options, err := fs.ParseOpenOptions(names)
	if err != nil {
		return nil, malformed("file backing: %v", err)
	}
	return &Descriptor{Kind: KindFile, Path: path, Options: options}, nil
}

func compressPayload(data []byte, cfg marshalConfig) ([]byte, Codec, error) {
	if cfg.codec == CodecNone || uint64(len(data)) < uint64(cfg.threshold) {
		return data, CodecNone, nil
	}

	compressor, err := compressorFor(cfg.codec, cfg.level)
	if err != nil {
		return nil, CodecNone, kfferrors.New(kfferrors.ErrorInvalidArgument, "marshal descriptor", err)
	}

	compressed, err := compressor.Compress(data)
	if err != nil {
		return nil, CodecNone, fmt.Errorf("compress payload: %w", err)
	}
	if len(compressed) >= len(data) {
		return data, CodecNone, nil
	}
	return compressed, cfg.codec, nil
}

func decompressPayload(payload []byte, codec Codec, length uint64) ([]byte, error) {
	if codec == CodecNone {
		if uint64(len(payload)) != length {
			return nil, malformed("payload is %d bytes, want %d", len(payload), length)
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	compressor, err := compressorFor(codec, 0)
	if err != nil {
		return nil, malformed("codec %s: %v", codec, err)
	}

	if length == 0 || length > uint64(math.MaxInt) {
		return nil, malformed("compressed payload claims %d raw bytes", length)
	}

	raw, err := compressor.Decompress(payload, int(length))
	if err != nil {
		return nil, malformed("codec %s: %v", codec, err)
	}
	if uint64(len(raw)) != length {
		return nil, malformed("decompressed payload is %d bytes, want %d", len(raw), length)
	}
	return raw, nil
}

type compressorKey struct {
	codec Codec
	level uint8
}

// compressors caches one compressor per codec and level for the life of the
// process. All of them are safe for concurrent use.
var compressors = struct {
	sync.Mutex
	m map[compressorKey]ports.CompressionPort
}{m: make(map[compressorKey]ports.CompressionPort)}

func compressorFor(codec Codec, level uint8) (ports.CompressionPort, error) {
	if level == 0 {
		level = compression.DefaultLevel
	}
	key := compressorKey{codec: codec, level: level}

	compressors.Lock()
	defer compressors.Unlock()

	if c, ok := compressors.m[key]; ok {
		return c, nil
	}

	opts := compression.DefaultOptions()
	opts.Codec = codec
	opts.Level = level

	c, err := compression.New(opts)
	if err != nil {
		return nil, err
	}
	compressors.m[key] = c
	return c, nil
}
