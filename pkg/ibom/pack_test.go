package ibom

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackConfigIsCompleteAssignment(t *testing.T) {
	doc := testDocument()

	expr, err := doc.packConfig()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(expr, "var config = "), "got %q", expr)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(expr, "var config = ")), &cfg))
	assert.Equal(t, "FB", cfg["layer_view"])
}

func TestPackPCBDataWrapsCompressedPayload(t *testing.T) {
	doc := testDocument()
	doc.Compress = func(s string) (string, error) {
		// Stand-in compressor so the test can see the wrapping only.
		return "COMPRESSED", nil
	}

	expr, err := doc.packPCBData()
	require.NoError(t, err)
	assert.Equal(t, `var pcbdata = JSON.parse(LZString.decompressFromBase64("COMPRESSED"))`, expr)
}

func TestPackPCBDataPassesSerializedPayloadToCompressor(t *testing.T) {
	doc := testDocument()
	var seen string
	doc.Compress = func(s string) (string, error) {
		seen = s
		return "x", nil
	}

	_, err := doc.packPCBData()
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(seen), &payload))
	assert.Contains(t, payload, "ibom_version")
	assert.Contains(t, payload, "bom")
}

func TestPackPCBDataPropagatesCompressorError(t *testing.T) {
	doc := testDocument()
	doc.Compress = func(string) (string, error) {
		return "", assert.AnError
	}

	_, err := doc.packPCBData()
	require.ErrorIs(t, err, assert.AnError)
}

func TestDefaultCompressorProducesBase64(t *testing.T) {
	out, err := compressLZString(`{"key":"value"}`)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	for _, r := range out {
		assert.Contains(t, alphabet, string(r))
	}
}
