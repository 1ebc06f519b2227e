package serialize

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// value always encodes to identical bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields and decodes untyped maps as map[string]any.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("serialize: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("serialize: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes v to CBOR using Core Deterministic Encoding.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnMarshalCBOR decodes CBOR data into dest.
func UnMarshalCBOR(data []byte, dest any) error {
	return decMode.Unmarshal(data, dest)
}

// DiagnoseCBOR returns the CBOR diagnostic notation (RFC 8949 §8) of data.
func DiagnoseCBOR(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
