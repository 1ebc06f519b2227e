// Package serialize holds the encodings used for descriptor handles and
// CLI output: JSON and deterministic CBOR.
package serialize

import (
	"encoding/json"
)

func MarshalJSON(data any) ([]byte, error) {
	return json.Marshal(data)
}

// MarshalIndentJSON is MarshalJSON with two-space indentation.
func MarshalIndentJSON(data any) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

func UnMarshalJSON(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
