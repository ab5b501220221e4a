package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffLen bounds how much of the payload is handed to chardet.
const sniffLen = 4096

// DecodeText converts a text payload of unknown charset to UTF-8 with LF line endings.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func DecodeText(b []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case bytes.HasPrefix(b, bomUTF8):
		text = string(b[len(bomUTF8):])
	case bytes.HasPrefix(b, bomUTF16LE):
		text, err = decode(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), b)
	case bytes.HasPrefix(b, bomUTF16BE):
		text, err = decode(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), b)
	case utf8.Valid(b):
		text = string(b)
	default:
		text, err = decode(detect(b), b)
	}

	if err != nil {
		return "", err
	}

	return normalizeNewlines(text), nil
}

func detect(b []byte) encoding.Encoding {
	sample := b
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return encoding.Nop
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252
		case "ISO-8859-9":
			return charmap.ISO8859_9
		}
	}

	return charmap.Windows1252
}

func decode(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	return string(out), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
