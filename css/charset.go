package css

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var charsetRE = regexp.MustCompile(`^@charset\s+("[^"]*"|'[^']*')\s*;`)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Decode converts stylesheet bytes to UTF-8 text. Byte order mark takes
// precedence over @charset rule, without either data is assumed to be UTF-8.
// It returns name of encoding used. On error the returned text is data as is,
// so callers may continue with it.
func Decode(data []byte) (string, string, error) {
	var enc encoding.Encoding
	name := "utf-8"

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), name, nil
	case bytes.HasPrefix(data, bomUTF16BE):
		enc, name = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "utf-16be"
	case bytes.HasPrefix(data, bomUTF16LE):
		enc, name = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "utf-16le"
	default:
		m := charsetRE.FindSubmatch(data)
		if m == nil {
			return string(data), name, nil
		}
		name = strings.ToLower(unquote(string(m[1])))
		e, err := ianaindex.IANA.Encoding(name)
		if err != nil {
			return string(data), name, fmt.Errorf("unknown charset %q: %w", name, err)
		}
		if e == nil {
			return string(data), name, fmt.Errorf("unsupported charset %q", name)
		}
		if e == unicode.UTF8 {
			return string(data), name, nil
		}
		enc = e
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), name, fmt.Errorf("unable to decode %s stylesheet: %w", name, err)
	}
	return string(out), name, nil
}
