package ibom

import (
	"encoding/json"
	"fmt"

	lzstring "github.com/daku10/go-lz-string"
)

// Compressor shrinks the serialized pcbdata text before it is embedded in the
// page. The output must be decompressible by the LZString.decompressFromBase64
// call baked into the viewer, unless the viewer assets are replaced as well.
type Compressor func(string) (string, error)

// compressLZString is the default Compressor.
func compressLZString(s string) (string, error) {
	return lzstring.CompressToBase64(s)
}

// packConfig renders the config document as a complete JS assignment.
func (d *Document) packConfig() (string, error) {
	data, err := json.Marshal(d.configDocument())
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}
	return "var config = " + string(data), nil
}

// packPCBData renders the payload document, compresses it and wraps it as a
// JS assignment that decompresses on page load.
func (d *Document) packPCBData() (string, error) {
	data, err := json.Marshal(d.payloadDocument())
	if err != nil {
		return "", fmt.Errorf("failed to serialize pcbdata: %w", err)
	}

	compress := d.Compress
	if compress == nil {
		compress = compressLZString
	}
	compressed, err := compress(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to compress pcbdata: %w", err)
	}

	return `var pcbdata = JSON.parse(LZString.decompressFromBase64("` + compressed + `"))`, nil
}
