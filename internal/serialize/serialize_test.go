package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Kind    string `json:"kind" cbor:"kind"`
	Payload []byte `json:"payload" cbor:"payload"`
	Size    int    `json:"size" cbor:"size"`
}

func TestCBORRoundTrip(t *testing.T) {
	original := envelope{Kind: "memory", Payload: []byte("Test data"), Size: 9}

	data, err := MarshalCBOR(original)
	require.NoError(t, err)

	var decoded envelope
	require.NoError(t, UnMarshalCBOR(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestCBORDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": "a", "mid": []int{1, 2}}

	first, err := MarshalCBOR(value)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := MarshalCBOR(value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCBORUntypedMaps(t *testing.T) {
	data, err := MarshalCBOR(map[string]any{"nested": map[string]any{"key": "value"}})
	require.NoError(t, err)

	var decoded any
	require.NoError(t, UnMarshalCBOR(data, &decoded))

	top, ok := decoded.(map[string]any)
	require.True(t, ok)
	_, ok = top["nested"].(map[string]any)
	assert.True(t, ok)
}

func TestDiagnoseCBOR(t *testing.T) {
	data, err := MarshalCBOR(map[string]int{"a": 1})
	require.NoError(t, err)

	diag, err := DiagnoseCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, diag)
}

func TestJSONRoundTrip(t *testing.T) {
	original := envelope{Kind: "file", Size: 3}

	data, err := MarshalJSON(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"file","payload":null,"size":3}`, string(data))

	var decoded envelope
	require.NoError(t, UnMarshalJSON(data, &decoded))
	assert.Equal(t, original, decoded)

	indented, err := MarshalIndentJSON(original)
	require.NoError(t, err)
	assert.Contains(t, string(indented), "\n  \"kind\"")
}
