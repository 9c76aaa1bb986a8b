package id3

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is an ID3v2 tag: a revision and an ordered sequence of frames.
// Frame insertion order is preserved. Identifiers restricted to
// singularity (text frames, one comment per language/description,
// ...) never coexist; AddFrame replaces instead.
type Tag struct {
	version Version
	frames  []Frame
}

// NewTag returns an empty tag. Its internal representation follows
// ID3v2.4; older revisions are converted on read and write.
func NewTag() *Tag {
	return &Tag{version: Version24}
}

// Version is the revision the tag had on disk, or Version24 for a tag
// built in memory.
func (t *Tag) Version() Version {
	return t.version
}

// Frames returns the tag's frames in insertion order.
func (t *Tag) Frames() []Frame {
	return t.frames
}

// Frame returns the first frame with the given canonical identifier.
func (t *Tag) Frame(id string) (Frame, bool) {
	for _, f := range t.frames {
		if f.id == id {
			return f, true
		}
	}
	return Frame{}, false
}

// HasFrame reports whether any frame with the identifier exists.
func (t *Tag) HasFrame(id string) bool {
	_, ok := t.Frame(id)
	return ok
}

// frameKey is the uniqueness key of a frame. Frames with an empty key
// may repeat freely.
func frameKey(f Frame) string {
	switch c := f.content.(type) {
	case Text, Timestamp, Link:
		return f.id
	case ExtendedText:
		return f.id + "\x00" + c.Description
	case ExtendedLink:
		return f.id + "\x00" + c.Description
	case Comment:
		return f.id + "\x00" + c.Language + "\x00" + c.Description
	case Lyrics:
		return f.id + "\x00" + c.Language + "\x00" + c.Description
	case Picture:
		// Only one icon of each kind may exist; other pictures are
		// keyed by description.
		if c.Type == PictureIcon || c.Type == PictureOtherIcon {
			return fmt.Sprintf("%s\x00type:%d", f.id, c.Type)
		}
		return f.id + "\x00" + c.Description
	case Popularimeter:
		return f.id + "\x00" + c.Email
	default:
		return ""
	}
}

// AddFrame appends a frame, replacing any existing frame with the same
// uniqueness key.
func (t *Tag) AddFrame(f Frame) {
	key := frameKey(f)
	if key != "" {
		for i, old := range t.frames {
			if frameKey(old) == key {
				t.frames[i] = f
				return
			}
		}
	}
	t.frames = append(t.frames, f)
}

// RemoveFrames deletes all frames with the given identifier.
func (t *Tag) RemoveFrames(id string) {
	kept := t.frames[:0]
	for _, f := range t.frames {
		if f.id != id {
			kept = append(kept, f)
		}
	}
	t.frames = kept
}

// Clear removes all frames.
func (t *Tag) Clear() {
	t.frames = nil
}

// Text returns the first value of a text frame, or "".
func (t *Tag) Text(id string) string {
	f, ok := t.Frame(id)
	if !ok {
		return ""
	}
	return f.Value()
}

// TextValues returns all values of a text frame.
func (t *Tag) TextValues(id string) []string {
	f, ok := t.Frame(id)
	if !ok {
		return nil
	}
	if c, ok := f.content.(Text); ok {
		return c.Values
	}
	return nil
}

// SetText sets a text frame to a single UTF-8 value.
func (t *Tag) SetText(id, value string) {
	t.SetTextValues(id, []string{value})
}

// SetTextValues sets a multi-valued text frame. Values beyond the
// first only survive a write to an ID3v2.4 target unmerged.
func (t *Tag) SetTextValues(id string, values []string) {
	t.AddFrame(NewFrame(id, Text{Encoding: EncodingUTF8, Values: values}))
}

func (t *Tag) Title() string         { return t.Text("TIT2") }
func (t *Tag) SetTitle(title string) { t.SetText("TIT2", title) }

func (t *Tag) Album() string         { return t.Text("TALB") }
func (t *Tag) SetAlbum(album string) { t.SetText("TALB", album) }

func (t *Tag) AlbumArtist() string       { return t.Text("TPE2") }
func (t *Tag) SetAlbumArtist(a string)   { t.SetText("TPE2", a) }
func (t *Tag) Artists() []string         { return t.TextValues("TPE1") }
func (t *Tag) SetArtists(names []string) { t.SetTextValues("TPE1", names) }

func (t *Tag) Artist() string {
	if names := t.Artists(); len(names) > 0 {
		return names[0]
	}
	return ""
}

func (t *Tag) SetArtist(name string) { t.SetText("TPE1", name) }

// Genre returns the content type with legacy numeric references
// expanded: "(31)" and plain "31" resolve through the ID3v1 genre
// table.
func (t *Tag) Genre() string {
	return expandGenre(t.Text("TCON"))
}

func (t *Tag) SetGenre(genre string) { t.SetText("TCON", genre) }

// expandGenre resolves the legacy "(NN)" and bare-number forms of
// TCON. A textual refinement after the reference wins over the
// reference itself.
func expandGenre(s string) string {
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < 256 {
		if name, ok := GenreName(byte(n)); ok {
			return name
		}
		return s
	}
	if strings.HasPrefix(s, "(") {
		end := strings.IndexByte(s, ')')
		if end > 1 {
			if rest := s[end+1:]; rest != "" {
				return rest
			}
			if n, err := strconv.Atoi(s[1:end]); err == nil && n >= 0 && n < 256 {
				if name, ok := GenreName(byte(n)); ok {
					return name
				}
			}
		}
	}
	return s
}

// RecordingTime returns the TDRC timestamp, if present.
func (t *Tag) RecordingTime() (Timestamp, bool) {
	f, ok := t.Frame("TDRC")
	if !ok {
		return Timestamp{}, false
	}
	ts, ok := f.content.(Timestamp)
	return ts, ok
}

func (t *Tag) SetRecordingTime(ts Timestamp) {
	t.AddFrame(NewFrame("TDRC", ts))
}

// Year returns the recording year, or 0.
func (t *Tag) Year() int {
	if ts, ok := t.RecordingTime(); ok {
		return ts.Year
	}
	if y, err := strconv.Atoi(t.Text("TYER")); err == nil {
		return y
	}
	return 0
}

func (t *Tag) SetYear(year int) {
	t.SetRecordingTime(Timestamp{Year: year, Month: -1, Day: -1, Hour: -1, Minute: -1, Second: -1})
}

// Track returns the track number and the total track count from TRCK
// ("4/9"); either may be 0 when absent.
func (t *Tag) Track() (int, int) {
	return parseSlashPair(t.Text("TRCK"))
}

func (t *Tag) SetTrack(track, total int) {
	t.SetText("TRCK", formatSlashPair(track, total))
}

// Disc returns the disc number and total from TPOS.
func (t *Tag) Disc() (int, int) {
	return parseSlashPair(t.Text("TPOS"))
}

func (t *Tag) SetDisc(disc, total int) {
	t.SetText("TPOS", formatSlashPair(disc, total))
}

func parseSlashPair(s string) (int, int) {
	num, den, _ := strings.Cut(s, "/")
	n, _ := strconv.Atoi(num)
	d, _ := strconv.Atoi(den)
	return n, d
}

func formatSlashPair(n, d int) string {
	if d > 0 {
		return fmt.Sprintf("%d/%d", n, d)
	}
	return strconv.Itoa(n)
}

// Comments returns all COMM payloads in insertion order.
func (t *Tag) Comments() []Comment {
	var out []Comment
	for _, f := range t.frames {
		if c, ok := f.content.(Comment); ok {
			out = append(out, c)
		}
	}
	return out
}

func (t *Tag) AddComment(c Comment) {
	t.AddFrame(NewFrame("COMM", c))
}

// Pictures returns all APIC payloads in insertion order.
func (t *Tag) Pictures() []Picture {
	var out []Picture
	for _, f := range t.frames {
		if p, ok := f.content.(Picture); ok {
			out = append(out, p)
		}
	}
	return out
}

func (t *Tag) AddPicture(p Picture) {
	t.AddFrame(NewFrame("APIC", p))
}

// Lyrics returns all USLT payloads in insertion order.
func (t *Tag) Lyrics() []Lyrics {
	var out []Lyrics
	for _, f := range t.frames {
		if l, ok := f.content.(Lyrics); ok {
			out = append(out, l)
		}
	}
	return out
}

func (t *Tag) AddLyrics(l Lyrics) {
	t.AddFrame(NewFrame("USLT", l))
}

// bridgeLegacyDates replaces the TYER/TDAT/TIME trio of pre-2.4 tags
// with a single TDRC timestamp, mirroring what framesForVersion does
// in reverse on write.
func (t *Tag) bridgeLegacyDates() {
	if t.HasFrame("TDRC") || !t.HasFrame("TYER") {
		return
	}
	year, err := strconv.Atoi(strings.TrimSpace(t.Text("TYER")))
	if err != nil {
		return
	}
	ts := Timestamp{Year: year, Month: -1, Day: -1, Hour: -1, Minute: -1, Second: -1}
	if date := t.Text("TDAT"); len(date) == 4 {
		day, errD := strconv.Atoi(date[:2])
		month, errM := strconv.Atoi(date[2:])
		if errD == nil && errM == nil {
			ts.Month, ts.Day = month, day
			if tim := t.Text("TIME"); len(tim) == 4 {
				hour, errH := strconv.Atoi(tim[:2])
				minute, errMin := strconv.Atoi(tim[2:])
				if errH == nil && errMin == nil {
					ts.Hour, ts.Minute = hour, minute
				}
			}
		}
	}
	t.RemoveFrames("TYER")
	t.RemoveFrames("TDAT")
	t.RemoveFrames("TIME")
	t.AddFrame(NewFrame("TDRC", ts))
}

// framesForVersion returns the frame sequence adjusted to what the
// target revision can express: for pre-2.4 targets the TDRC timestamp
// is split back into TYER/TDAT/TIME and TDOR falls back to TORY.
func (t *Tag) framesForVersion(v Version) []Frame {
	if v == Version24 {
		return t.frames
	}
	var out []Frame
	for _, f := range t.frames {
		switch f.id {
		case "TDRC":
			ts, ok := f.content.(Timestamp)
			if !ok {
				out = append(out, f)
				continue
			}
			out = append(out, textFrame("TYER", fmt.Sprintf("%04d", ts.Year)))
			if ts.Month >= 0 && ts.Day >= 0 {
				out = append(out, textFrame("TDAT", fmt.Sprintf("%02d%02d", ts.Day, ts.Month)))
			}
			if ts.Hour >= 0 && ts.Minute >= 0 {
				out = append(out, textFrame("TIME", fmt.Sprintf("%02d%02d", ts.Hour, ts.Minute)))
			}
		case "TDOR":
			if ts, ok := f.content.(Timestamp); ok {
				out = append(out, textFrame("TORY", fmt.Sprintf("%04d", ts.Year)))
			} else {
				out = append(out, f)
			}
		default:
			out = append(out, f)
		}
	}
	return out
}

func textFrame(id, value string) Frame {
	return NewFrame(id, Text{Encoding: EncodingLatin1, Values: []string{value}})
}
