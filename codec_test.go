package id3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTag() *Tag {
	tag := NewTag()
	tag.SetTitle("Such a lovely title")
	tag.SetArtists([]string{"me", "you"})
	tag.SetAlbum("Yippey")
	tag.SetGenre("Trance")
	tag.SetTrack(4, 9)
	tag.SetRecordingTime(Timestamp{Year: 2014, Month: 7, Day: 9, Hour: -1, Minute: -1, Second: -1})
	tag.AddComment(Comment{Encoding: EncodingUTF8, Language: "eng", Text: "a comment"})
	return tag
}

func encodeParse(t *testing.T, e *Encoder, tag *Tag) *Tag {
	t.Helper()
	b, err := e.Bytes(tag)
	require.NoError(t, err)
	got, err := ReadFrom(bytes.NewReader(b))
	require.NoError(t, err)
	return got
}

func TestTagRoundTripV24(t *testing.T) {
	tag := buildTestTag()
	got := encodeParse(t, NewEncoder(Version24), tag)

	assert.Equal(t, Version24, got.Version())
	assert.Equal(t, "Such a lovely title", got.Title())
	assert.Equal(t, []string{"me", "you"}, got.Artists())
	assert.Equal(t, "Yippey", got.Album())
	assert.Equal(t, "Trance", got.Genre())
	track, total := got.Track()
	assert.Equal(t, 4, track)
	assert.Equal(t, 9, total)
	ts, ok := got.RecordingTime()
	require.True(t, ok)
	assert.Equal(t, "2014-07-09", ts.String())
	require.Len(t, got.Comments(), 1)
	assert.Equal(t, "a comment", got.Comments()[0].Text)
}

func TestTagRoundTripV23(t *testing.T) {
	tag := buildTestTag()
	got := encodeParse(t, NewEncoder(Version23), tag)

	assert.Equal(t, Version23, got.Version())
	assert.Equal(t, "Such a lovely title", got.Title())
	// Multiple values only survive a v2.4 target.
	assert.Equal(t, []string{"me/you"}, got.Artists())

	// TDRC is written as the TYER/TDAT/TIME trio and bridged back.
	assert.False(t, got.HasFrame("TYER"))
	ts, ok := got.RecordingTime()
	require.True(t, ok)
	assert.Equal(t, "2014-07-09", ts.String())
}

func TestTagRoundTripV22(t *testing.T) {
	tag := NewTag()
	tag.SetTitle("Legacy title")
	tag.SetArtist("dominikh")

	e := NewEncoder(Version22)
	b, err := e.Bytes(tag)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(b, []byte("TT2")), "title frame must use the 3-character identifier")
	assert.False(t, bytes.Contains(b, []byte("TIT2")))

	got, err := ReadFrom(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "Legacy title", got.Title())
	assert.Equal(t, "dominikh", got.Artist())

	// Re-encoding the parsed tag restores the legacy layout exactly.
	again, err := e.Bytes(got)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestV22UnmappableFrameFails(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TSST", Text{Encoding: EncodingLatin1, Values: []string{"x"}}))
	_, err := NewEncoder(Version22).Bytes(tag)
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFeature, kindOf(err))
}

func TestTagHeaderLayout(t *testing.T) {
	tag := NewTag()
	tag.SetTitle("T")
	b, err := NewEncoder(Version24).WithPadding(100).Bytes(tag)
	require.NoError(t, err)

	assert.Equal(t, []byte("ID3"), b[:3])
	assert.Equal(t, byte(4), b[3])
	assert.Equal(t, byte(0), b[4])
	size, err := desyncsafeInt([4]byte(b[6:10]))
	require.NoError(t, err)
	assert.Equal(t, len(b)-tagHeaderSize, size)
}

func TestPaddingIsSkipped(t *testing.T) {
	tag := buildTestTag()
	got := encodeParse(t, NewEncoder(Version24).WithPadding(512), tag)
	assert.Equal(t, "Such a lovely title", got.Title())
	assert.Len(t, got.Frames(), len(tag.Frames()))
}

func TestFooterRoundTrip(t *testing.T) {
	tag := buildTestTag()
	e := NewEncoder(Version24).WithFooter(true)
	b, err := e.Bytes(tag)
	require.NoError(t, err)
	assert.Equal(t, []byte("3DI"), b[len(b)-tagHeaderSize:len(b)-tagHeaderSize+3])

	got, err := ReadFrom(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "Such a lovely title", got.Title())
}

func TestFooterRequiresV24(t *testing.T) {
	_, err := NewEncoder(Version23).WithFooter(true).Bytes(NewTag())
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFeature, kindOf(err))
}

func TestUnsynchronisedRoundTrip(t *testing.T) {
	tag := NewTag()
	tag.AddPicture(Picture{
		Encoding: EncodingLatin1,
		MIMEType: "image/jpeg",
		Type:     PictureCoverFront,
		Data:     []byte{0xFF, 0xE0, 0xFF, 0x00, 0xFF, 0xFB, 0xFF},
	})
	tag.SetTitle("sync test")

	for _, v := range []Version{Version23, Version24} {
		got := encodeParse(t, NewEncoder(v).WithUnsynchronisation(true), tag)
		require.Len(t, got.Pictures(), 1, v.String())
		assert.Equal(t, tag.Pictures()[0].Data, got.Pictures()[0].Data, v.String())
		assert.Equal(t, "sync test", got.Title(), v.String())
	}
}

func TestCompressedFrameRoundTrip(t *testing.T) {
	lyrics := Lyrics{
		Encoding: EncodingUTF8,
		Language: "eng",
		Text:     "la la la la la la la la la la la la la la la la la",
	}
	tag := NewTag()
	tag.AddFrame(NewFrame("USLT", lyrics).WithFlags(FrameFlags{Compression: true}))

	for _, v := range []Version{Version23, Version24} {
		got := encodeParse(t, NewEncoder(v), tag)
		require.Len(t, got.Lyrics(), 1, v.String())
		assert.Equal(t, lyrics.Text, got.Lyrics()[0].Text, v.String())
		f, ok := got.Frame("USLT")
		require.True(t, ok)
		assert.True(t, f.Flags().Compression, v.String())
	}
}

func TestGroupedFrameRoundTrip(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TIT2", Text{Encoding: EncodingUTF8, Values: []string{"grouped"}}).
		WithFlags(FrameFlags{Grouping: true, GroupID: 0x42}))

	for _, v := range []Version{Version23, Version24} {
		got := encodeParse(t, NewEncoder(v), tag)
		f, ok := got.Frame("TIT2")
		require.True(t, ok, v.String())
		assert.True(t, f.Flags().Grouping, v.String())
		assert.Equal(t, byte(0x42), f.Flags().GroupID, v.String())
		assert.Equal(t, "grouped", f.Value(), v.String())
	}
}

func TestV22RejectsOversizedFrameBody(t *testing.T) {
	tag := NewTag()
	tag.AddPicture(Picture{
		Encoding: EncodingLatin1,
		MIMEType: "image/png",
		Type:     PictureCoverFront,
		Data:     make([]byte, 0xFFFFFF+5),
	})

	// The 3-byte v2.2 frame size field cannot carry the body; the write
	// must fail instead of truncating the size on the wire.
	_, err := NewEncoder(Version22).Bytes(tag)
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFeature, kindOf(err))

	// The same body fits a v2.3 frame's 32-bit size field.
	b, err := NewEncoder(Version23).Bytes(tag)
	require.NoError(t, err)
	got, err := ReadFrom(bytes.NewReader(b))
	require.NoError(t, err)
	require.Len(t, got.Pictures(), 1)
	assert.Len(t, got.Pictures()[0].Data, 0xFFFFFF+5)
}

func TestEncryptedFrameCannotBeWritten(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TIT2", Text{Values: []string{"x"}}).WithFlags(FrameFlags{Encryption: true}))
	_, err := NewEncoder(Version24).Bytes(tag)
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFeature, kindOf(err))
}

// appendRawFrame writes a hand-built v2.4 frame.
func appendRawFrame(b []byte, id string, flags uint16, body []byte) []byte {
	b = append(b, id...)
	size := syncsafeInt(len(body))
	b = append(b, size[:]...)
	b = append(b, byte(flags>>8), byte(flags))
	return append(b, body...)
}

func rawTag(frames []byte) []byte {
	out := appendTagHeader(nil, id3Magic, Version24, 0, len(frames))
	return append(out, frames...)
}

func TestPartialTagSkipsEncryptedFrame(t *testing.T) {
	var frames []byte
	frames = appendRawFrame(frames, "TIT2", 0, []byte("\x03Good title"))
	frames = appendRawFrame(frames, "TALB", v24FlagEncryption, []byte{0x01, 0xAA, 0xBB})
	frames = appendRawFrame(frames, "TPE1", 0, []byte("\x03Good artist"))

	_, err := ReadFrom(bytes.NewReader(rawTag(frames)))
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFeature, kindOf(err))

	tag, err := PartialTagOk(nil, err)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "Good title", tag.Title())
	assert.Equal(t, "Good artist", tag.Artist())
	assert.False(t, tag.HasFrame("TALB"))
}

func TestPartialTagSkipsUndecodableBody(t *testing.T) {
	var frames []byte
	frames = appendRawFrame(frames, "TIT2", 0, []byte{0x09, 'x'}) // invalid encoding byte
	frames = appendRawFrame(frames, "TPE1", 0, []byte("\x03artist"))

	_, err := ReadFrom(bytes.NewReader(rawTag(frames)))
	require.Error(t, err)

	tag, err := PartialTagOk(nil, err)
	require.NoError(t, err)
	assert.Equal(t, "artist", tag.Artist())
	assert.False(t, tag.HasFrame("TIT2"))
}

func TestPartialTagRecordsEverySkippedFrame(t *testing.T) {
	var frames []byte
	frames = appendRawFrame(frames, "TIT2", 0, []byte{0x09, 'x'}) // invalid encoding byte
	frames = appendRawFrame(frames, "TALB", v24FlagEncryption, []byte{0x01, 0xAA})
	frames = appendRawFrame(frames, "TPE1", 0, []byte("\x03artist"))

	_, err := ReadFrom(bytes.NewReader(rawTag(frames)))
	require.Error(t, err)
	e, ok := err.(*Error)
	require.True(t, ok)

	// Both dropped frames are on record, not just the first.
	assert.Equal(t, []SkippedFrame{
		{ID: "TIT2", Kind: ErrParsing},
		{ID: "TALB", Kind: ErrUnsupportedFeature},
	}, e.Skipped)
	assert.Equal(t, ErrParsing, e.Kind)
	require.NotNil(t, e.Partial)
	assert.Equal(t, "artist", e.Partial.Artist())
}

func TestNoTagOk(t *testing.T) {
	tag, err := NoTagOk(ReadFrom(bytes.NewReader([]byte("not an mp3 file"))))
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestNoTagOkPassesOtherErrorsThrough(t *testing.T) {
	// Valid magic but a declared size past the end of the input.
	b := appendTagHeader(nil, id3Magic, Version24, 0, 1000)
	_, err := NoTagOk(ReadFrom(bytes.NewReader(b)))
	require.Error(t, err)
	assert.Equal(t, ErrParsing, kindOf(err))
}

func TestUnsupportedVersion(t *testing.T) {
	b := append([]byte("ID3"), 9, 0, 0, 0, 0, 0, 0)
	_, err := ReadFrom(bytes.NewReader(b))
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedVersion, kindOf(err))
}

func TestUnknownFrameRoundTripsRaw(t *testing.T) {
	payload := []byte{0x10, 0x00, 0xFF, 0x01}
	tag := NewTag()
	tag.AddFrame(NewFrame("XYZ0", Unknown{Data: payload}))

	got := encodeParse(t, NewEncoder(Version24), tag)
	f, ok := got.Frame("XYZ0")
	require.True(t, ok)
	assert.Equal(t, Unknown{Data: payload}, f.Content())
}
