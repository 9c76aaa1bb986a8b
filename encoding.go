package id3

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding declared by the first byte of most
// frame bodies.
type Encoding byte

const (
	// EncodingLatin1 is ISO-8859-1. Bytes map one to one onto the
	// Unicode code points 0-255.
	EncodingLatin1 Encoding = 0
	// EncodingUTF16 is UTF-16 with a mandatory byte order mark.
	EncodingUTF16 Encoding = 1
	// EncodingUTF16BE is big-endian UTF-16 without a byte order mark.
	// Only legal in ID3v2.4.
	EncodingUTF16BE Encoding = 2
	// EncodingUTF8 is UTF-8. Only legal in ID3v2.4.
	EncodingUTF8 Encoding = 3
)

var (
	latin1Enc  = charmap.ISO8859_1
	utf16be    = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16le    = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16bomBE = []byte{0xFE, 0xFF}
	utf16bomLE = []byte{0xFF, 0xFE}
	nul        = []byte{0}
	nulnul     = []byte{0, 0}
)

func (e Encoding) String() string {
	switch e {
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// validEncodingByte reports whether b names one of the four encodings.
func validEncodingByte(b byte) bool {
	return b <= 3
}

// validFor reports whether the encoding may be written in the given
// revision. ID3v2.2 and v2.3 only know ISO-8859-1 and UTF-16 with BOM.
func (e Encoding) validFor(v Version) bool {
	if v == Version24 {
		return true
	}
	return e == EncodingLatin1 || e == EncodingUTF16
}

// forVersion downgrades the encoding to one the target revision can
// carry. UTF-8 and BOM-less UTF-16 become UTF-16 with BOM pre-2.4.
func (e Encoding) forVersion(v Version) Encoding {
	if e.validFor(v) {
		return e
	}
	return EncodingUTF16
}

// terminator is the string terminator in this encoding: a single null
// for the 8-bit encodings, a null pair for the 16-bit ones.
func (e Encoding) terminator() []byte {
	switch e {
	case EncodingUTF16, EncodingUTF16BE:
		return nulnul
	default:
		return nul
	}
}

// decodeString converts raw frame bytes in the declared encoding to a
// Go string.
func (e Encoding) decodeString(b []byte) (string, error) {
	switch e {
	case EncodingLatin1:
		s, err := latin1Enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", wrapError(ErrStringDecoding, err, "decoding ISO-8859-1 text")
		}
		return string(s), nil
	case EncodingUTF16:
		if len(b) == 0 {
			return "", nil
		}
		if len(b)%2 != 0 {
			return "", newError(ErrStringDecoding, "UTF-16 text has odd byte length %d", len(b))
		}
		switch {
		case bytes.HasPrefix(b, utf16bomBE):
			s, err := utf16be.NewDecoder().Bytes(b[2:])
			if err != nil {
				return "", wrapError(ErrStringDecoding, err, "decoding UTF-16BE text")
			}
			return string(s), nil
		case bytes.HasPrefix(b, utf16bomLE):
			s, err := utf16le.NewDecoder().Bytes(b[2:])
			if err != nil {
				return "", wrapError(ErrStringDecoding, err, "decoding UTF-16LE text")
			}
			return string(s), nil
		default:
			return "", newError(ErrStringDecoding, "invalid UTF-16 byte order mark % x", b[:2])
		}
	case EncodingUTF16BE:
		if len(b)%2 != 0 {
			return "", newError(ErrStringDecoding, "UTF-16BE text has odd byte length %d", len(b))
		}
		s, err := utf16be.NewDecoder().Bytes(b)
		if err != nil {
			return "", wrapError(ErrStringDecoding, err, "decoding UTF-16BE text")
		}
		return string(s), nil
	case EncodingUTF8:
		if !utf8.Valid(b) {
			return "", newError(ErrStringDecoding, "invalid UTF-8 sequence")
		}
		return string(b), nil
	default:
		return "", newError(ErrParsing, "invalid encoding byte %d", byte(e))
	}
}

// encodeString converts a Go string to raw bytes in this encoding.
// Encoding a string with code points outside ISO-8859-1's range with
// EncodingLatin1 selected fails.
func (e Encoding) encodeString(s string) ([]byte, error) {
	switch e {
	case EncodingLatin1:
		b, err := latin1Enc.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, wrapError(ErrStringDecoding, err, "string not representable in ISO-8859-1")
		}
		return b, nil
	case EncodingUTF16:
		b, err := utf16be.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, wrapError(ErrStringDecoding, err, "encoding UTF-16 text")
		}
		out := make([]byte, 0, len(b)+2)
		out = append(out, utf16bomBE...)
		return append(out, b...), nil
	case EncodingUTF16BE:
		b, err := utf16be.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, wrapError(ErrStringDecoding, err, "encoding UTF-16BE text")
		}
		return b, nil
	case EncodingUTF8:
		return []byte(s), nil
	default:
		return nil, newError(ErrParsing, "invalid encoding byte %d", byte(e))
	}
}

// indexTerminator finds the string terminator in b, honoring the
// 2-byte alignment of the 16-bit encodings. It returns the index of
// the terminator and the terminator width, or -1 if none is present.
func (e Encoding) indexTerminator(b []byte) (int, int) {
	if len(e.terminator()) == 1 {
		return bytes.IndexByte(b, 0), 1
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i, 2
		}
	}
	return -1, 2
}

// splitTerminated splits b at the first terminator. The head excludes
// the terminator, the rest starts just after it. A missing terminator
// is a parsing error: any string other than the last in a frame body
// must be explicitly terminated.
func (e Encoding) splitTerminated(b []byte) (head, rest []byte, err error) {
	i, w := e.indexTerminator(b)
	if i < 0 {
		return nil, nil, newError(ErrParsing, "missing string terminator")
	}
	return b[:i], b[i+w:], nil
}

// splitValues splits a multi-valued text body (ID3v2.4) on the
// encoding's terminator. The last string in a frame body is never
// null-terminated, so a single trailing terminator does not open an
// empty final value.
func (e Encoding) splitValues(b []byte) [][]byte {
	if len(b) == 0 {
		return [][]byte{{}}
	}
	var out [][]byte
	for {
		i, w := e.indexTerminator(b)
		if i < 0 {
			return append(out, b)
		}
		out = append(out, b[:i])
		b = b[i+w:]
		if len(b) == 0 {
			return out
		}
	}
}
