// Package decoder detects the character encoding of a YAML byte stream and
// decodes it into the text buffer every later stage works on.
//
// Detection follows the YAML stream rules: a byte order mark wins, otherwise
// the position of zero bytes in the first four bytes decides, on the basis
// that a YAML stream must begin with an ASCII character.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies a supported character encoding.
type Encoding string

// Supported encodings.
const (
	UTF32BE Encoding = "utf-32-be"
	UTF32LE Encoding = "utf-32-le"
	UTF16BE Encoding = "utf-16-be"
	UTF16LE Encoding = "utf-16-le"
	UTF8BOM Encoding = "utf-8-sig"
	UTF8    Encoding = "utf-8"
)

// Byte order marks.
var (
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// OverrideWarning is attached to every Result produced with a forced encoding.
const OverrideWarning = "file encoding override is a temporary workaround; " +
	"prefer adding a byte order mark to the file"

// ErrMalformed indicates bytes that are not valid in the selected encoding.
var ErrMalformed = errors.New("malformed input")

// ErrUnknownEncoding is returned by ParseEncoding for unsupported names.
var ErrUnknownEncoding = errors.New("unknown encoding")

// DecodeError describes where decoding failed.
type DecodeError struct {
	Encoding Encoding
	Offset   int
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode as %s at byte %d: %s", e.Encoding, e.Offset, e.Reason)
}

// Unwrap lets callers match decode failures with errors.Is(err, ErrMalformed).
func (e *DecodeError) Unwrap() error {
	return ErrMalformed
}

// Options controls decoding.
type Options struct {
	// Override forces an encoding and skips detection when non-empty.
	Override Encoding
}

// Result holds a decoded buffer.
type Result struct {
	// Text is the decoded content without any byte order mark.
	Text string

	// Encoding is the detected or forced encoding.
	Encoding Encoding

	// Warnings are non-fatal notes for the caller to surface.
	Warnings []string
}

// DetectEncoding returns the encoding of b. The first matching rule wins.
func DetectEncoding(b []byte) Encoding {
	if len(b) >= 4 {
		switch {
		case bytes.HasPrefix(b, bomUTF32BE):
			return UTF32BE
		case b[0] == 0 && b[1] == 0 && b[2] == 0:
			return UTF32BE
		case bytes.HasPrefix(b, bomUTF32LE):
			return UTF32LE
		case b[1] == 0 && b[2] == 0 && b[3] == 0:
			return UTF32LE
		}
	}

	if len(b) >= 2 {
		switch {
		case bytes.HasPrefix(b, bomUTF16BE):
			return UTF16BE
		case b[0] == 0:
			return UTF16BE
		case bytes.HasPrefix(b, bomUTF16LE):
			// A four byte UTF-32 LE mark was ruled out above.
			return UTF16LE
		case b[1] == 0:
			return UTF16LE
		}
	}

	if bytes.HasPrefix(b, bomUTF8) {
		return UTF8BOM
	}
	return UTF8
}

// Decode converts b to text. The byte order mark of the selected encoding is
// stripped when present.
func Decode(b []byte, opts Options) (Result, error) {
	var res Result

	enc := opts.Override
	if enc != "" {
		if !enc.valid() {
			return res, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
		}
		res.Warnings = append(res.Warnings, OverrideWarning)
	} else {
		enc = DetectEncoding(b)
	}
	res.Encoding = enc

	bom := bomFor(enc)
	if !bytes.HasPrefix(b, bom) {
		bom = nil
	}
	body := b[len(bom):]

	var (
		text string
		err  error
	)
	switch enc {
	case UTF32BE:
		text, err = decodeUTF32(body, true)
	case UTF32LE:
		text, err = decodeUTF32(body, false)
	case UTF16BE:
		text, err = decodeUTF16(swapPairs(body), UTF16BE)
	case UTF16LE:
		text, err = decodeUTF16(body, UTF16LE)
	case UTF8BOM, UTF8:
		text, err = decodeUTF8(body, enc)
	}
	if err != nil {
		// Offsets are reported against the input, mark included.
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.Offset += len(bom)
		}
		return res, err
	}

	res.Text = text
	return res, nil
}

// ParseEncoding resolves an encoding name. Both the canonical tags and the
// underscore spellings used by Python codecs are accepted.
func ParseEncoding(name string) (Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.ReplaceAll(norm, "_", "-")
	switch norm {
	case "utf-32-be", "utf-32be", "utf32be":
		return UTF32BE, nil
	case "utf-32-le", "utf-32le", "utf32le":
		return UTF32LE, nil
	case "utf-16-be", "utf-16be", "utf16be":
		return UTF16BE, nil
	case "utf-16-le", "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-8-sig", "utf-8sig", "utf8-sig":
		return UTF8BOM, nil
	case "utf-8", "utf8":
		return UTF8, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// bomFor returns the byte order mark of enc.
func bomFor(enc Encoding) []byte {
	switch enc {
	case UTF32BE:
		return bomUTF32BE
	case UTF32LE:
		return bomUTF32LE
	case UTF16BE:
		return bomUTF16BE
	case UTF16LE:
		return bomUTF16LE
	case UTF8BOM, UTF8:
		return bomUTF8
	}
	return nil
}

func (e Encoding) valid() bool {
	switch e {
	case UTF32BE, UTF32LE, UTF16BE, UTF16LE, UTF8BOM, UTF8:
		return true
	}
	return false
}

// decodeUTF32 assembles code points from 4-byte groups.
func decodeUTF32(b []byte, bigEndian bool) (string, error) {
	enc := UTF32LE
	if bigEndian {
		enc = UTF32BE
	}
	if len(b)%4 != 0 {
		return "", &DecodeError{Encoding: enc, Offset: len(b) - len(b)%4, Reason: "truncated code unit"}
	}

	var sb strings.Builder
	sb.Grow(len(b) / 4)
	for i := 0; i < len(b); i += 4 {
		var cp uint32
		if bigEndian {
			cp = uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
		} else {
			cp = uint32(b[i+3])<<24 | uint32(b[i+2])<<16 | uint32(b[i+1])<<8 | uint32(b[i])
		}
		if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			return "", &DecodeError{Encoding: enc, Offset: i, Reason: fmt.Sprintf("invalid code point U+%X", cp)}
		}
		sb.WriteRune(rune(cp))
	}
	return sb.String(), nil
}

// swapPairs returns a copy of b with every byte pair reversed, turning
// big-endian UTF-16 into little-endian.
func swapPairs(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

// decodeUTF16 decodes little-endian UTF-16. enc is only used for error reporting.
// The x/text decoder substitutes U+FFFD for bad input, so surrogates are
// checked here first.
func decodeUTF16(le []byte, enc Encoding) (string, error) {
	if len(le)%2 != 0 {
		return "", &DecodeError{Encoding: enc, Offset: len(le) - 1, Reason: "truncated code unit"}
	}
	if off, ok := checkSurrogates(le); !ok {
		return "", &DecodeError{Encoding: enc, Offset: off, Reason: "unpaired surrogate"}
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(le)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc, err)
	}
	return string(out), nil
}

// checkSurrogates reports the offset of the first unpaired surrogate.
func checkSurrogates(le []byte) (int, bool) {
	for i := 0; i+1 < len(le); i += 2 {
		unit := uint16(le[i]) | uint16(le[i+1])<<8
		switch {
		case unit >= 0xD800 && unit <= 0xDBFF:
			if i+3 >= len(le) {
				return i, false
			}
			low := uint16(le[i+2]) | uint16(le[i+3])<<8
			if low < 0xDC00 || low > 0xDFFF {
				return i, false
			}
			i += 2
		case unit >= 0xDC00 && unit <= 0xDFFF:
			return i, false
		}
	}
	return 0, true
}

func decodeUTF8(b []byte, enc Encoding) (string, error) {
	if !utf8.Valid(b) {
		off := 0
		for off < len(b) {
			r, size := utf8.DecodeRune(b[off:])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			off += size
		}
		return "", &DecodeError{Encoding: enc, Offset: off, Reason: "invalid UTF-8 sequence"}
	}
	return string(b), nil
}
