package document

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText converts data to UTF-8. A byte order mark wins; otherwise the
// charset is sniffed (UTF-8 when valid, else a <meta> declaration, else
// windows-1252).
func decodeText(data []byte) (string, error) {
	return decode(data, "text/plain")
}

func decode(data []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}
