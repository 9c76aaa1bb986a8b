package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFrameReplacesTextFrames(t *testing.T) {
	tag := NewTag()
	tag.SetTitle("first")
	tag.SetTitle("second")

	assert.Equal(t, "second", tag.Title())
	assert.Len(t, tag.Frames(), 1)
}

func TestAddFrameKeysCommentsByLanguageAndDescription(t *testing.T) {
	tag := NewTag()
	tag.AddComment(Comment{Language: "eng", Description: "a", Text: "one"})
	tag.AddComment(Comment{Language: "eng", Description: "b", Text: "two"})
	tag.AddComment(Comment{Language: "deu", Description: "a", Text: "drei"})
	assert.Len(t, tag.Comments(), 3)

	tag.AddComment(Comment{Language: "eng", Description: "a", Text: "replaced"})
	require.Len(t, tag.Comments(), 3)
	assert.Equal(t, "replaced", tag.Comments()[0].Text)
}

func TestAddFrameKeysExtendedTextByDescription(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TXXX", ExtendedText{Description: "a", Value: "1"}))
	tag.AddFrame(NewFrame("TXXX", ExtendedText{Description: "b", Value: "2"}))
	tag.AddFrame(NewFrame("TXXX", ExtendedText{Description: "a", Value: "3"}))
	assert.Len(t, tag.Frames(), 2)
}

func TestAddFrameSingleIconPicture(t *testing.T) {
	tag := NewTag()
	tag.AddPicture(Picture{Type: PictureIcon, Description: "x"})
	tag.AddPicture(Picture{Type: PictureIcon, Description: "y"})
	tag.AddPicture(Picture{Type: PictureCoverFront, Description: "x"})
	tag.AddPicture(Picture{Type: PictureCoverFront, Description: "y"})

	pics := tag.Pictures()
	require.Len(t, pics, 3)
	assert.Equal(t, "y", pics[0].Description)
}

func TestUnknownFramesMayRepeat(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("PRIV", Unknown{Data: []byte{1}}))
	tag.AddFrame(NewFrame("PRIV", Unknown{Data: []byte{2}}))
	assert.Len(t, tag.Frames(), 2)
}

func TestRemoveFrames(t *testing.T) {
	tag := buildTestTag()
	require.True(t, tag.HasFrame("TIT2"))
	tag.RemoveFrames("TIT2")
	assert.False(t, tag.HasFrame("TIT2"))
	assert.True(t, tag.HasFrame("TPE1"))
}

func TestGenreExpansion(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"Trance", "Trance"},
		{"31", "Trance"},
		{"(31)", "Trance"},
		{"(31)Psytrance", "Psytrance"},
		{"(255)", "(255)"},
		{"", ""},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, expandGenre(test.in), test.in)
	}
}

func TestYearFallsBackToTYER(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TYER", Text{Encoding: EncodingLatin1, Values: []string{"1986"}}))
	assert.Equal(t, 1986, tag.Year())

	tag.SetYear(2001)
	assert.Equal(t, 2001, tag.Year())
}

func TestTrackFormatting(t *testing.T) {
	tag := NewTag()
	tag.SetTrack(4, 9)
	assert.Equal(t, "4/9", tag.Text("TRCK"))

	tag.SetTrack(7, 0)
	assert.Equal(t, "7", tag.Text("TRCK"))
	track, total := tag.Track()
	assert.Equal(t, 7, track)
	assert.Equal(t, 0, total)
}

func TestBridgeLegacyDates(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TYER", Text{Values: []string{"2003"}}))
	tag.AddFrame(NewFrame("TDAT", Text{Values: []string{"2112"}}))
	tag.AddFrame(NewFrame("TIME", Text{Values: []string{"2345"}}))
	tag.bridgeLegacyDates()

	assert.False(t, tag.HasFrame("TYER"))
	assert.False(t, tag.HasFrame("TDAT"))
	assert.False(t, tag.HasFrame("TIME"))
	ts, ok := tag.RecordingTime()
	require.True(t, ok)
	assert.Equal(t, "2003-12-21T23:45", ts.String())
}

func TestBridgeLegacyDatesYearOnly(t *testing.T) {
	tag := NewTag()
	tag.AddFrame(NewFrame("TYER", Text{Values: []string{"1999"}}))
	tag.bridgeLegacyDates()

	ts, ok := tag.RecordingTime()
	require.True(t, ok)
	assert.Equal(t, "1999", ts.String())
}

func TestGenreNameTable(t *testing.T) {
	name, ok := GenreName(31)
	require.True(t, ok)
	assert.Equal(t, "Trance", name)

	name, ok = GenreName(0)
	require.True(t, ok)
	assert.Equal(t, "Blues", name)

	_, ok = GenreName(255)
	assert.False(t, ok)

	assert.Equal(t, byte(31), genreIndex("Trance"))
	assert.Equal(t, byte(255), genreIndex("not a genre"))
}
