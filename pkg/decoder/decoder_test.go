package decoder_test

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/decoder"
)

func encodeUTF32(s string, order binary.AppendByteOrder) []byte {
	out := make([]byte, 0, len(s)*4)
	for _, r := range s {
		out = order.AppendUint32(out, uint32(r))
	}
	return out
}

func encodeUTF16(s string, order binary.AppendByteOrder) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = order.AppendUint16(out, u)
	}
	return out
}

func TestDetectEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  decoder.Encoding
	}{
		{"empty", nil, decoder.UTF8},
		{"single byte", []byte("a"), decoder.UTF8},
		{"utf-32 be bom", []byte{0x00, 0x00, 0xFE, 0xFF, 0, 0, 0, 'a'}, decoder.UTF32BE},
		{"utf-32 be heuristic", []byte{0, 0, 0, 'a'}, decoder.UTF32BE},
		{"utf-32 le bom", []byte{0xFF, 0xFE, 0x00, 0x00, 'a', 0, 0, 0}, decoder.UTF32LE},
		{"utf-32 le heuristic", []byte{'a', 0, 0, 0}, decoder.UTF32LE},
		{"utf-16 be bom", []byte{0xFE, 0xFF, 0, 'a'}, decoder.UTF16BE},
		{"utf-16 be heuristic", []byte{0, 'a'}, decoder.UTF16BE},
		{"utf-16 le bom", []byte{0xFF, 0xFE, 'a', 0}, decoder.UTF16LE},
		{"utf-16 le bom short", []byte{0xFF, 0xFE}, decoder.UTF16LE},
		{"utf-16 le heuristic", []byte{'a', 0}, decoder.UTF16LE},
		{"utf-8 bom", []byte{0xEF, 0xBB, 0xBF, 'a'}, decoder.UTF8BOM},
		{"utf-8 plain", []byte("key: value\n"), decoder.UTF8},
		{"utf-8 non ascii without bom", []byte("é: 1\n"), decoder.UTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decoder.DetectEncoding(tt.input))
		})
	}
}

func TestDetectEncoding_BOMPrefixWins(t *testing.T) {
	t.Parallel()

	boms := map[decoder.Encoding][]byte{
		decoder.UTF32BE: {0x00, 0x00, 0xFE, 0xFF},
		decoder.UTF32LE: {0xFF, 0xFE, 0x00, 0x00},
		decoder.UTF16BE: {0xFE, 0xFF},
		decoder.UTF16LE: {0xFF, 0xFE},
		decoder.UTF8BOM: {0xEF, 0xBB, 0xBF},
	}
	// A UTF-16 LE mark followed by two zero bytes is a UTF-32 LE mark, so
	// payloads opening with "\x00\x00" are left out.
	payloads := [][]byte{
		nil,
		[]byte("a"),
		[]byte("key: value\n"),
		{0x00, 'a'},
		{'a', 0x00, 0x00, 0x00},
		{0xFF, 0xFE},
		{0xEF, 0xBB, 0xBF},
		[]byte("日本"),
	}

	for enc, bom := range boms {
		for _, payload := range payloads {
			input := append(append([]byte{}, bom...), payload...)
			assert.Equal(t, enc, decoder.DetectEncoding(input), "bom %s payload %q", enc, payload)
		}
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := []string{
		"",
		"a\n",
		"key: value\nlist:\n  - é\n",
		"emoji: 😀 and 𝄞\n",
		"日本語: テキスト\n",
	}

	encoders := map[decoder.Encoding]func(string) []byte{
		decoder.UTF32BE: func(s string) []byte {
			return append([]byte{0x00, 0x00, 0xFE, 0xFF}, encodeUTF32(s, binary.BigEndian)...)
		},
		decoder.UTF32LE: func(s string) []byte {
			return append([]byte{0xFF, 0xFE, 0x00, 0x00}, encodeUTF32(s, binary.LittleEndian)...)
		},
		decoder.UTF16BE: func(s string) []byte {
			return append([]byte{0xFE, 0xFF}, encodeUTF16(s, binary.BigEndian)...)
		},
		decoder.UTF16LE: func(s string) []byte {
			return append([]byte{0xFF, 0xFE}, encodeUTF16(s, binary.LittleEndian)...)
		},
		decoder.UTF8BOM: func(s string) []byte {
			return append([]byte{0xEF, 0xBB, 0xBF}, s...)
		},
	}

	for enc, encode := range encoders {
		for _, s := range samples {
			res, err := decoder.Decode(encode(s), decoder.Options{})
			require.NoError(t, err, "encoding %s sample %q", enc, s)
			assert.Equal(t, s, res.Text, "encoding %s", enc)
			if s != "" {
				assert.Equal(t, enc, res.Encoding)
			}
			assert.Empty(t, res.Warnings)
		}
	}
}

func TestDecode_UTF32BEWithBOM(t *testing.T) {
	t.Parallel()

	input := []byte{0x00, 0x00, 0xFE, 0xFF, 0, 0, 0, 'a', 0, 0, 0, '\n'}
	res, err := decoder.Decode(input, decoder.Options{})
	require.NoError(t, err)
	assert.Equal(t, "a\n", res.Text)
	assert.Equal(t, decoder.UTF32BE, res.Encoding)
}

func TestDecode_Heuristics(t *testing.T) {
	t.Parallel()

	res, err := decoder.Decode(encodeUTF16("a: b\n", binary.BigEndian), decoder.Options{})
	require.NoError(t, err)
	assert.Equal(t, decoder.UTF16BE, res.Encoding)
	assert.Equal(t, "a: b\n", res.Text)

	res, err = decoder.Decode(encodeUTF32("a: b\n", binary.LittleEndian), decoder.Options{})
	require.NoError(t, err)
	assert.Equal(t, decoder.UTF32LE, res.Encoding)
	assert.Equal(t, "a: b\n", res.Text)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  []byte
		offset int
	}{
		{"utf-32 truncated", []byte{0x00, 0x00, 0xFE, 0xFF, 0, 0, 'a'}, 4},
		{"utf-32 out of range", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x11, 0x00, 0x00}, 4},
		{"utf-32 surrogate", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0xD8, 0x00}, 4},
		{"utf-16 odd length", []byte{0xFF, 0xFE, 'a', 0, 'b'}, 4},
		{"utf-16 truncated after mark", []byte{0xFF, 0xFE, 'a'}, 2},
		{"utf-16 lone high surrogate", []byte{0xFF, 0xFE, 0x00, 0xD8, 'a', 0}, 2},
		{"utf-16 lone low surrogate", []byte{0xFE, 0xFF, 0xDC, 0x00}, 2},
		{"utf-8 invalid", []byte{'a', 0xC3, 0x28}, 1},
		{"utf-8 invalid after mark", []byte{0xEF, 0xBB, 0xBF, 'a', 0xFF}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decoder.Decode(tt.input, decoder.Options{})
			require.Error(t, err)
			require.ErrorIs(t, err, decoder.ErrMalformed)

			var decErr *decoder.DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, tt.offset, decErr.Offset)
		})
	}
}

func TestDecode_Override(t *testing.T) {
	t.Parallel()

	// Detection would pick UTF-16 LE for this input.
	input := []byte{'a', 0x00}

	res, err := decoder.Decode(input, decoder.Options{Override: decoder.UTF8})
	require.NoError(t, err)
	assert.Equal(t, "a\x00", res.Text)
	assert.Equal(t, decoder.UTF8, res.Encoding)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, decoder.OverrideWarning, res.Warnings[0])

	_, err = decoder.Decode(input, decoder.Options{Override: "latin-1"})
	require.ErrorIs(t, err, decoder.ErrUnknownEncoding)
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want decoder.Encoding
	}{
		{"utf-8", decoder.UTF8},
		{"UTF8", decoder.UTF8},
		{"utf_8_sig", decoder.UTF8BOM},
		{"utf_16_le", decoder.UTF16LE},
		{"UTF-16-BE", decoder.UTF16BE},
		{" utf_32_be ", decoder.UTF32BE},
		{"utf-32-le", decoder.UTF32LE},
	}
	for _, tt := range tests {
		got, err := decoder.ParseEncoding(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := decoder.ParseEncoding("ebcdic")
	require.ErrorIs(t, err, decoder.ErrUnknownEncoding)
}
