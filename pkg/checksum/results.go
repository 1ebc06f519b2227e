package checksum

import (
	"bytes"
	"encoding/hex"
	"slices"

	adapters "github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/serialize"
)

// Results holds the outcome of one digest run. It is immutable and safe to
// share.
type Results struct {
	order    []string
	hashes   map[string][]byte
	crc      int64
	fuzzy    string
	hasFuzzy bool
}

// canonical resolves name, returning "" for unknown names.
func canonical(name string) string {
	alg, err := adapters.Canonical(name)
	if err != nil {
		return ""
	}
	return string(alg)
}

// Hash returns a copy of the digest computed for the named algorithm, or
// nil when it was not computed. CRC32 and SSDEEP have their own accessors.
func (r *Results) Hash(name string) []byte {
	sum, ok := r.hashes[canonical(name)]
	if !ok {
		return nil
	}
	return bytes.Clone(sum)
}

// HashHex returns the lowercase hex form of Hash, or "" when the digest was
// not computed.
func (r *Results) HashHex(name string) string {
	sum, ok := r.hashes[canonical(name)]
	if !ok {
		return ""
	}
	return hex.EncodeToString(sum)
}

// Checksum returns the CRC32 checksum, or -1 when it was not computed.
func (r *Results) Checksum() int64 {
	return r.crc
}

// FuzzyHash returns the ssdeep signature, or "" when it was not computed.
func (r *Results) FuzzyHash() string {
	return r.fuzzy
}

// HasFuzzyHash reports whether the ssdeep signature was computed.
func (r *Results) HasFuzzyHash() bool {
	return r.hasFuzzy
}

// Algorithms lists every computed algorithm in configuration order.
func (r *Results) Algorithms() []string {
	return slices.Clone(r.order)
}

// Has reports whether the named algorithm was computed.
func (r *Results) Has(name string) bool {
	return slices.Contains(r.order, canonical(name))
}

// MarshalJSON encodes the results as an object keyed by algorithm, in
// configuration order: digests as hex strings, CRC32 as a number and SSDEEP
// as its signature.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, name := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := serialize.MarshalJSON(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value any
		switch name {
		case CRC32:
			value = r.crc
		case SSDEEP:
			value = r.fuzzy
		default:
			value = hex.EncodeToString(r.hashes[name])
		}

		encoded, err := serialize.MarshalJSON(value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
