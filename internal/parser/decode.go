package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the decoding that produced the text handed to the parser.
type Encoding string

const (
	EncodingUTF16      Encoding = "utf-16"
	EncodingUTF8       Encoding = "utf-8"
	EncodingPermissive Encoding = "utf-8-permissive"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns the raw bytes of an export into text. UTF-16 is used when the
// input starts with a UTF-16 byte order mark, strict UTF-8 otherwise. If the
// primary decoding fails the bytes are decoded as UTF-8 with undecodable
// sequences dropped. Decode never fails.
func Decode(raw []byte) (string, Encoding) {
	if bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		if text, err := decodeUTF16(raw); err == nil {
			return text, EncodingUTF16
		}
		return permissive(raw), EncodingPermissive
	}

	raw = bytes.TrimPrefix(raw, bomUTF8)
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8
	}
	return permissive(raw), EncodingPermissive
}

func decodeUTF16(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("odd utf-16 length %d", len(raw))
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode utf-16: %w", err)
	}
	// The x/text decoder substitutes U+FFFD for unpaired surrogates instead
	// of failing, which counts as a failed strict decode here.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("invalid utf-16 sequence")
	}
	return string(out), nil
}

func permissive(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}
