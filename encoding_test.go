package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	utf8TestString = "Ein etwas kürzerer Text mit wenigen Umlauten: äöüß äöüß"
	isoTestString  = []byte("Ein etwas k\xFCrzerer Text mit wenigen Umlauten: \xE4\xF6\xFC\xDF \xE4\xF6\xFC\xDF")
)

func TestDecodeLatin1(t *testing.T) {
	s, err := EncodingLatin1.decodeString(isoTestString)
	require.NoError(t, err)
	assert.Equal(t, utf8TestString, s)
}

func TestEncodeLatin1(t *testing.T) {
	b, err := EncodingLatin1.encodeString(utf8TestString)
	require.NoError(t, err)
	assert.Equal(t, isoTestString, b)
}

func TestEncodeLatin1Unrepresentable(t *testing.T) {
	_, err := EncodingLatin1.encodeString("日本語")
	require.Error(t, err)
	assert.Equal(t, ErrStringDecoding, kindOf(err))
}

func TestDecodeUTF16BigEndianBOM(t *testing.T) {
	in := []byte{254, 255, 0, 74, 0,
		117, 0, 115, 0, 116, 0, 32, 0, 97, 0, 32, 0, 116, 0, 101, 0, 115,
		0, 116, 0, 58, 0, 32, 0, 228, 0, 252, 0, 246, 0, 32, 101, 229,
		103, 44, 138, 158}

	s, err := EncodingUTF16.decodeString(in)
	require.NoError(t, err)
	assert.Equal(t, "Just a test: äüö 日本語", s)
}

func TestDecodeUTF16LittleEndianBOM(t *testing.T) {
	in := []byte{255, 254, 74, 0, 117, 0, 115, 0, 116, 0, 32, 0, 97,
		0, 32, 0, 116, 0, 101, 0, 115, 0, 116, 0, 58, 0, 32, 0, 228, 0,
		252, 0, 246, 0, 32, 0, 229, 101, 44, 103, 158, 138}

	s, err := EncodingUTF16.decodeString(in)
	require.NoError(t, err)
	assert.Equal(t, "Just a test: äüö 日本語", s)
}

func TestDecodeUTF16BEWithoutBOM(t *testing.T) {
	in := []byte{0, 74, 0,
		117, 0, 115, 0, 116, 0, 32, 0, 97, 0, 32, 0, 116, 0, 101, 0, 115,
		0, 116, 0, 58, 0, 32, 0, 228, 0, 252, 0, 246, 0, 32, 101, 229,
		103, 44, 138, 158}

	s, err := EncodingUTF16BE.decodeString(in)
	require.NoError(t, err)
	assert.Equal(t, "Just a test: äüö 日本語", s)
}

func TestDecodeUTF16RejectsMissingBOM(t *testing.T) {
	_, err := EncodingUTF16.decodeString([]byte{0, 74, 0, 117})
	require.Error(t, err)
	assert.Equal(t, ErrStringDecoding, kindOf(err))
}

func TestDecodeUTF16RejectsOddLength(t *testing.T) {
	_, err := EncodingUTF16.decodeString([]byte{254, 255, 0})
	require.Error(t, err)
	assert.Equal(t, ErrStringDecoding, kindOf(err))
}

func TestDecodeUTF8Invalid(t *testing.T) {
	_, err := EncodingUTF8.decodeString([]byte{0xC3, 0x28})
	require.Error(t, err)
	assert.Equal(t, ErrStringDecoding, kindOf(err))
}

func TestEncodeUTF16PrependsBOM(t *testing.T) {
	b, err := EncodingUTF16.encodeString("A")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0xFF, 0, 'A'}, b)
}

func TestRoundTripAllEncodings(t *testing.T) {
	for _, enc := range []Encoding{EncodingLatin1, EncodingUTF16, EncodingUTF16BE, EncodingUTF8} {
		b, err := enc.encodeString(utf8TestString)
		require.NoError(t, err, enc.String())
		s, err := enc.decodeString(b)
		require.NoError(t, err, enc.String())
		assert.Equal(t, utf8TestString, s, enc.String())
	}
}

func TestSplitTerminated(t *testing.T) {
	head, rest, err := EncodingLatin1.splitTerminated([]byte("abc\x00def"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), head)
	assert.Equal(t, []byte("def"), rest)

	_, _, err = EncodingLatin1.splitTerminated([]byte("abc"))
	require.Error(t, err)
	assert.Equal(t, ErrParsing, kindOf(err))
}

func TestSplitTerminatedUTF16Alignment(t *testing.T) {
	// The first two zero bytes straddle two code units and must not be
	// taken for a terminator.
	in := []byte{0xFE, 0xFF, 0x30, 0x00, 0x00, 0x41, 0x00, 0x00, 0xFE, 0xFF, 0x00, 0x42}
	head, rest, err := EncodingUTF16.splitTerminated(in)
	require.NoError(t, err)
	assert.Equal(t, in[:6], head)
	assert.Equal(t, in[8:], rest)
}

func BenchmarkDecodeLatin1(b *testing.B) {
	b.SetBytes(int64(len(isoTestString)))
	for i := 0; i < b.N; i++ {
		_, _ = EncodingLatin1.decodeString(isoTestString)
	}
}

func BenchmarkEncodeLatin1(b *testing.B) {
	b.SetBytes(int64(len(utf8TestString)))
	for i := 0; i < b.N; i++ {
		_, _ = EncodingLatin1.encodeString(utf8TestString)
	}
}

func BenchmarkDecodeUTF16(b *testing.B) {
	in, err := EncodingUTF16.encodeString(utf8TestString)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EncodingUTF16.decodeString(in)
	}
}

func TestSplitValues(t *testing.T) {
	vals := EncodingLatin1.splitValues([]byte("a\x00b\x00c"))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, vals)

	// A single trailing terminator does not open an empty final value.
	vals = EncodingLatin1.splitValues([]byte("a\x00"))
	assert.Equal(t, [][]byte{[]byte("a")}, vals)

	vals = EncodingLatin1.splitValues(nil)
	assert.Len(t, vals, 1)
	assert.Empty(t, vals[0])
}
