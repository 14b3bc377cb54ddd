// Package charset converts snapshot files exported in legacy Central European
// code pages (Romanian retailers still ship Windows-1250) into UTF-8.
package charset

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

// DetectEncoding returns UTF-8 for data with a UTF-8 BOM or valid UTF-8 content,
// Windows-1250 otherwise.
func DetectEncoding(data []byte) Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1250
}

// Decode converts data from enc to a UTF-8 string. Data that is already valid
// UTF-8 is returned unchanged whatever enc says, so a mislabelled file is not
// decoded twice.
func Decode(data []byte, enc Encoding) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	var decoder encoding.Encoding
	switch enc {
	case EncodingUTF8, "", EncodingWindows1250:
		decoder = charmap.Windows1250
	case EncodingISO88592:
		decoder = charmap.ISO8859_2
	default:
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}

	out, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(out), nil
}
