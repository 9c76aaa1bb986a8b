package id3

import (
	"io"
	"os"
	"strconv"
	"strings"
)

// V1Tag is the fixed 128-byte legacy tag found at the very end of a
// file. All string fields are limited to 30 bytes of Latin-1; a track
// number (ID3v1.1) claims the last two comment bytes.
type V1Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	// Track is 0 when the tag predates ID3v1.1.
	Track byte
	// GenreID indexes the legacy genre table; 255 means unset.
	GenreID byte
}

const v1TagSize = 128

var v1Magic = []byte("TAG")

// Genre resolves the genre byte through the legacy table.
func (v *V1Tag) Genre() string {
	if name, ok := GenreName(v.GenreID); ok {
		return name
	}
	return ""
}

// ToTag lifts the legacy fields into an ID3v2.4 tag.
func (v *V1Tag) ToTag() *Tag {
	t := NewTag()
	if v.Title != "" {
		t.SetTitle(v.Title)
	}
	if v.Artist != "" {
		t.SetArtist(v.Artist)
	}
	if v.Album != "" {
		t.SetAlbum(v.Album)
	}
	if year, err := strconv.Atoi(strings.TrimSpace(v.Year)); err == nil && year > 0 {
		t.SetYear(year)
	}
	if v.Comment != "" {
		t.AddComment(Comment{
			Encoding: EncodingUTF8,
			Language: "XXX",
			Text:     v.Comment,
		})
	}
	if v.Track > 0 {
		t.SetTrack(int(v.Track), 0)
	}
	if name, ok := GenreName(v.GenreID); ok {
		t.SetGenre(name)
	}
	return t
}

// NewV1Tag projects an ID3v2 tag onto the legacy fields, the inverse
// of ToTag. Fields longer than the fixed layout allows are truncated
// on write; a genre with no table entry becomes the unset byte 255.
func NewV1Tag(t *Tag) *V1Tag {
	v1 := &V1Tag{
		Title:   t.Title(),
		Artist:  t.Artist(),
		Album:   t.Album(),
		GenreID: genreIndex(t.Genre()),
	}
	if year := t.Year(); year > 0 {
		v1.Year = strconv.Itoa(year)
	}
	if comments := t.Comments(); len(comments) > 0 {
		v1.Comment = comments[0].Text
	}
	if track, _ := t.Track(); track > 0 && track < 256 {
		v1.Track = byte(track)
	}
	return v1
}

func v1Field(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	s, _ := EncodingLatin1.decodeString(b[:end])
	return s
}

func setV1Field(dst []byte, s string) {
	b, err := EncodingLatin1.encodeString(s)
	if err != nil {
		// Unrepresentable runes degrade to '?', the field is lossy by
		// nature.
		b = make([]byte, 0, len(s))
		for _, r := range s {
			if r < 0x100 {
				b = append(b, byte(r))
			} else {
				b = append(b, '?')
			}
		}
	}
	copy(dst, b)
}

func decodeV1(b []byte) *V1Tag {
	tag := &V1Tag{
		Title:   v1Field(b[3:33]),
		Artist:  v1Field(b[33:63]),
		Album:   v1Field(b[63:93]),
		Year:    v1Field(b[93:97]),
		GenreID: b[127],
	}
	comment := b[97:127]
	// ID3v1.1: a zero byte before a nonzero final byte marks a track
	// number carved out of the comment field.
	if comment[28] == 0 && comment[29] != 0 {
		tag.Track = comment[29]
		comment = comment[:28]
	}
	tag.Comment = v1Field(comment)
	return tag
}

// Bytes serializes the tag to its fixed 128-byte layout.
func (v *V1Tag) Bytes() [v1TagSize]byte {
	var b [v1TagSize]byte
	copy(b[:3], v1Magic)
	setV1Field(b[3:33], v.Title)
	setV1Field(b[33:63], v.Artist)
	setV1Field(b[63:93], v.Album)
	setV1Field(b[93:97], v.Year)
	if v.Track > 0 {
		setV1Field(b[97:125], v.Comment)
		b[125] = 0
		b[126] = v.Track
	} else {
		setV1Field(b[97:127], v.Comment)
	}
	b[127] = v.GenreID
	return b
}

// v1Region reads the trailing 128 bytes if the file is long enough and
// they carry the TAG magic.
func v1Region(f io.ReadSeeker) ([]byte, int64, bool, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, false, ioError(err, "measuring file length")
	}
	if size < v1TagSize {
		return nil, 0, false, nil
	}
	off := size - v1TagSize
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, 0, false, ioError(err, "seeking to trailing tag")
	}
	b := make([]byte, v1TagSize)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, 0, false, ioError(err, "reading trailing tag")
	}
	if b[0] != 'T' || b[1] != 'A' || b[2] != 'G' {
		return nil, 0, false, nil
	}
	return b, off, true, nil
}

// DetectV1 reports whether the file ends in an ID3v1 tag.
func DetectV1(f io.ReadSeeker) (bool, error) {
	_, _, found, err := v1Region(f)
	return found, err
}

// ReadV1 reads the trailing ID3v1 tag. A missing tag is ErrNoTag.
func ReadV1(f io.ReadSeeker) (*V1Tag, error) {
	b, _, found, err := v1Region(f)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newError(ErrNoTag, "no ID3v1 tag found")
	}
	return decodeV1(b), nil
}

// ReadV1Path reads the trailing ID3v1 tag of the named file.
func ReadV1Path(path string) (*V1Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "opening "+path)
	}
	defer f.Close()
	return ReadV1(f)
}

// WriteV1 appends the tag to the end of the file, replacing an
// existing ID3v1 tag in place.
func WriteV1(f StorageFile, v *V1Tag) error {
	_, off, found, err := v1Region(f)
	if err != nil {
		return err
	}
	if !found {
		end, err := fileLength(f)
		if err != nil {
			return err
		}
		off = end
	}
	b := v.Bytes()
	return writeAt(f, b[:], off)
}

// RemoveV1 truncates a trailing ID3v1 tag away, reporting whether one
// was present.
func RemoveV1(f StorageFile) (bool, error) {
	_, off, found, err := v1Region(f)
	if err != nil || !found {
		return false, err
	}
	if err := f.Truncate(off); err != nil {
		return false, ioError(err, "truncating trailing tag")
	}
	return true, nil
}
