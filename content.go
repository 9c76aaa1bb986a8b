package id3

import (
	"bytes"
	"strings"
)

// Content is the decoded payload of a frame. It is a closed set of
// shapes; the shape used for an identifier is fixed by the registry.
type Content interface {
	shape() contentShape
}

// Text is the payload of the T??? information frames. ID3v2.4 allows
// multiple null-separated values; earlier revisions carry one.
type Text struct {
	Encoding Encoding
	Values   []string
}

// ExtendedText is the payload of TXXX: a described, user-defined text
// value.
type ExtendedText struct {
	Encoding    Encoding
	Description string
	Value       string
}

// Link is the payload of the W??? URL frames. URLs are always
// ISO-8859-1 and never null-terminated.
type Link struct {
	URL string
}

// ExtendedLink is the payload of WXXX.
type ExtendedLink struct {
	Encoding    Encoding
	Description string
	URL         string
}

// Comment is the payload of COMM.
type Comment struct {
	Encoding    Encoding
	Language    string
	Description string
	Text        string
}

// Lyrics is the payload of USLT.
type Lyrics struct {
	Encoding    Encoding
	Language    string
	Description string
	Text        string
}

// Picture is the payload of APIC (PIC in ID3v2.2). The image bytes are
// opaque to this layer.
type Picture struct {
	Encoding    Encoding
	MIMEType    string
	Type        PictureType
	Description string
	Data        []byte
}

// Popularimeter is the payload of POPM.
type Popularimeter struct {
	Email   string
	Rating  byte
	Counter uint64
}

// Unknown holds the raw payload of an unrecognized identifier. It
// round-trips byte for byte.
type Unknown struct {
	Data []byte
}

func (Text) shape() contentShape          { return shapeText }
func (ExtendedText) shape() contentShape  { return shapeExtendedText }
func (Link) shape() contentShape          { return shapeLink }
func (ExtendedLink) shape() contentShape  { return shapeExtendedLink }
func (Comment) shape() contentShape       { return shapeComment }
func (Lyrics) shape() contentShape        { return shapeLyrics }
func (Picture) shape() contentShape       { return shapePicture }
func (Popularimeter) shape() contentShape { return shapePopularimeter }
func (Timestamp) shape() contentShape     { return shapeTimestamp }
func (Unknown) shape() contentShape       { return shapeUnknown }

// Value returns the first text value.
func (t Text) Value() string {
	if len(t.Values) == 0 {
		return ""
	}
	return t.Values[0]
}

type PictureType byte

const (
	PictureOther PictureType = iota
	PictureIcon
	PictureOtherIcon
	PictureCoverFront
	PictureCoverBack
	PictureLeaflet
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureScreenCapture
	PictureBrightColouredFish
	PictureIllustration
	PictureBandLogotype
	PicturePublisherLogotype
)

var pictureTypeNames = []string{
	"Other",
	"32x32 pixels 'file icon' (PNG only)",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media (e.g. label side of CD)",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

func (p PictureType) String() string {
	if int(p) >= len(pictureTypeNames) {
		return ""
	}
	return pictureTypeNames[p]
}

func truncatedErr() error {
	return newError(ErrParsing, "truncated frame body")
}

// readEncodingByte consumes the leading encoding byte of a frame body.
func readEncodingByte(b []byte) (Encoding, []byte, error) {
	if len(b) == 0 {
		return 0, nil, truncatedErr()
	}
	if !validEncodingByte(b[0]) {
		return 0, nil, newError(ErrParsing, "invalid encoding byte %d", b[0])
	}
	return Encoding(b[0]), b[1:], nil
}

// stripTrailingTerminator tolerates producers that null-terminate the
// final string of a frame body even though the format says not to.
func stripTrailingTerminator(b []byte, enc Encoding) []byte {
	term := enc.terminator()
	if len(b) >= len(term) && bytes.Equal(b[len(b)-len(term):], term) {
		return b[:len(b)-len(term)]
	}
	return b
}

// decodeContent decodes one frame body. The identifier must already be
// in canonical form.
func decodeContent(id string, version Version, b []byte) (Content, error) {
	switch shapeFor(id) {
	case shapeText:
		return decodeText(version, b)
	case shapeExtendedText:
		return decodeExtendedText(b)
	case shapeLink:
		return decodeLink(b)
	case shapeExtendedLink:
		return decodeExtendedLink(b)
	case shapeComment:
		c, err := decodeLangDescText(b)
		if err != nil {
			return nil, err
		}
		return Comment(c), nil
	case shapeLyrics:
		c, err := decodeLangDescText(b)
		if err != nil {
			return nil, err
		}
		return Lyrics(c), nil
	case shapePicture:
		return decodePicture(version, b)
	case shapePopularimeter:
		return decodePopularimeter(b)
	case shapeTimestamp:
		return decodeTimestamp(b)
	default:
		data := make([]byte, len(b))
		copy(data, b)
		return Unknown{Data: data}, nil
	}
}

func decodeText(version Version, b []byte) (Content, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return nil, err
	}
	if version < Version24 {
		// Single value, possibly null-terminated by sloppy writers.
		s, err := enc.decodeString(stripTrailingTerminator(rest, enc))
		if err != nil {
			return nil, err
		}
		return Text{Encoding: enc, Values: []string{s}}, nil
	}
	var values []string
	for _, raw := range enc.splitValues(rest) {
		s, err := enc.decodeString(raw)
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}
	return Text{Encoding: enc, Values: values}, nil
}

func decodeExtendedText(b []byte) (Content, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return nil, err
	}
	descRaw, valRaw, err := enc.splitTerminated(rest)
	if err != nil {
		return nil, err
	}
	desc, err := enc.decodeString(descRaw)
	if err != nil {
		return nil, err
	}
	val, err := enc.decodeString(stripTrailingTerminator(valRaw, enc))
	if err != nil {
		return nil, err
	}
	return ExtendedText{Encoding: enc, Description: desc, Value: val}, nil
}

func decodeLink(b []byte) (Content, error) {
	url, err := EncodingLatin1.decodeString(stripTrailingTerminator(b, EncodingLatin1))
	if err != nil {
		return nil, err
	}
	return Link{URL: url}, nil
}

func decodeExtendedLink(b []byte) (Content, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return nil, err
	}
	descRaw, urlRaw, err := enc.splitTerminated(rest)
	if err != nil {
		return nil, err
	}
	desc, err := enc.decodeString(descRaw)
	if err != nil {
		return nil, err
	}
	url, err := EncodingLatin1.decodeString(stripTrailingTerminator(urlRaw, EncodingLatin1))
	if err != nil {
		return nil, err
	}
	return ExtendedLink{Encoding: enc, Description: desc, URL: url}, nil
}

func decodeLangDescText(b []byte) (Comment, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return Comment{}, err
	}
	if len(rest) < 3 {
		return Comment{}, truncatedErr()
	}
	// Invalid language codes are preserved raw to tolerate
	// non-conformant producers.
	lang := string(rest[:3])
	descRaw, textRaw, err := enc.splitTerminated(rest[3:])
	if err != nil {
		return Comment{}, err
	}
	desc, err := enc.decodeString(descRaw)
	if err != nil {
		return Comment{}, err
	}
	text, err := enc.decodeString(stripTrailingTerminator(textRaw, enc))
	if err != nil {
		return Comment{}, err
	}
	return Comment{Encoding: enc, Language: lang, Description: desc, Text: text}, nil
}

func decodePicture(version Version, b []byte) (Content, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return nil, err
	}
	var mime string
	if version == Version22 {
		if len(rest) < 3 {
			return nil, truncatedErr()
		}
		mime = string(rest[:3])
		rest = rest[3:]
	} else {
		mimeRaw, r, err := EncodingLatin1.splitTerminated(rest)
		if err != nil {
			return nil, err
		}
		mime, err = EncodingLatin1.decodeString(mimeRaw)
		if err != nil {
			return nil, err
		}
		rest = r
	}
	if len(rest) == 0 {
		return nil, truncatedErr()
	}
	picType := PictureType(rest[0])
	descRaw, dataRaw, err := enc.splitTerminated(rest[1:])
	if err != nil {
		return nil, err
	}
	desc, err := enc.decodeString(descRaw)
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(dataRaw))
	copy(data, dataRaw)
	return Picture{
		Encoding:    enc,
		MIMEType:    mime,
		Type:        picType,
		Description: desc,
		Data:        data,
	}, nil
}

func decodePopularimeter(b []byte) (Content, error) {
	emailRaw, rest, err := EncodingLatin1.splitTerminated(b)
	if err != nil {
		return nil, err
	}
	email, err := EncodingLatin1.decodeString(emailRaw)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, truncatedErr()
	}
	rating := rest[0]
	// The play counter is big-endian and consumes the remainder of the
	// frame body; its width is determined by the frame length.
	counterRaw := rest[1:]
	if len(counterRaw) > 8 {
		return nil, newError(ErrParsing, "popularimeter counter wider than 8 bytes")
	}
	var counter uint64
	for _, c := range counterRaw {
		counter = counter<<8 | uint64(c)
	}
	return Popularimeter{Email: email, Rating: rating, Counter: counter}, nil
}

func decodeTimestamp(b []byte) (Content, error) {
	enc, rest, err := readEncodingByte(b)
	if err != nil {
		return nil, err
	}
	s, err := enc.decodeString(stripTrailingTerminator(rest, enc))
	if err != nil {
		return nil, err
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// encodeContent serializes a frame body for the target revision,
// downgrading the text encoding if the revision cannot carry it.
func encodeContent(c Content, version Version) ([]byte, error) {
	switch c := c.(type) {
	case Text:
		return encodeText(c, version)
	case ExtendedText:
		return encodeDescValue(c.Encoding.forVersion(version), c.Description, c.Value, false)
	case Link:
		return EncodingLatin1.encodeString(c.URL)
	case ExtendedLink:
		return encodeDescValue(c.Encoding.forVersion(version), c.Description, c.URL, true)
	case Comment:
		return encodeLangDescText(c.Encoding.forVersion(version), c.Language, c.Description, c.Text)
	case Lyrics:
		return encodeLangDescText(c.Encoding.forVersion(version), c.Language, c.Description, c.Text)
	case Picture:
		return encodePicture(c, version)
	case Popularimeter:
		return encodePopularimeter(c)
	case Timestamp:
		var buf bytes.Buffer
		buf.WriteByte(byte(EncodingLatin1))
		buf.WriteString(c.String())
		return buf.Bytes(), nil
	case Unknown:
		return c.Data, nil
	default:
		return nil, newError(ErrUnsupportedFeature, "cannot encode content of type %T", c)
	}
}

func encodeText(t Text, version Version) ([]byte, error) {
	enc := t.Encoding.forVersion(version)
	values := t.Values
	if len(values) == 0 {
		values = []string{""}
	}
	if version < Version24 && len(values) > 1 {
		// Pre-2.4 text frames carry a single value.
		values = []string{strings.Join(values, "/")}
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	for i, v := range values {
		if i > 0 {
			buf.Write(enc.terminator())
		}
		b, err := enc.encodeString(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func encodeDescValue(enc Encoding, desc, value string, latin1Value bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	d, err := enc.encodeString(desc)
	if err != nil {
		return nil, err
	}
	buf.Write(d)
	buf.Write(enc.terminator())
	valueEnc := enc
	if latin1Value {
		valueEnc = EncodingLatin1
	}
	v, err := valueEnc.encodeString(value)
	if err != nil {
		return nil, err
	}
	buf.Write(v)
	return buf.Bytes(), nil
}

func encodeLangDescText(enc Encoding, lang, desc, text string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	buf.Write(languageBytes(lang))
	d, err := enc.encodeString(desc)
	if err != nil {
		return nil, err
	}
	buf.Write(d)
	buf.Write(enc.terminator())
	t, err := enc.encodeString(text)
	if err != nil {
		return nil, err
	}
	buf.Write(t)
	return buf.Bytes(), nil
}

// languageBytes pads or truncates a language code to exactly 3 bytes.
func languageBytes(lang string) []byte {
	b := []byte(lang)
	for len(b) < 3 {
		b = append(b, ' ')
	}
	return b[:3]
}

func encodePicture(p Picture, version Version) ([]byte, error) {
	enc := p.Encoding.forVersion(version)
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	if version == Version22 {
		buf.WriteString(pictureFormatCode(p.MIMEType))
	} else {
		m, err := EncodingLatin1.encodeString(p.MIMEType)
		if err != nil {
			return nil, err
		}
		buf.Write(m)
		buf.WriteByte(0)
	}
	buf.WriteByte(byte(p.Type))
	d, err := enc.encodeString(p.Description)
	if err != nil {
		return nil, err
	}
	buf.Write(d)
	buf.Write(enc.terminator())
	buf.Write(p.Data)
	return buf.Bytes(), nil
}

// pictureFormatCode converts a MIME type to the 3-character image
// format code of ID3v2.2.
func pictureFormatCode(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	}
	code := strings.ToUpper(strings.TrimPrefix(strings.ToLower(mime), "image/"))
	for len(code) < 3 {
		code += " "
	}
	return code[:3]
}

func encodePopularimeter(p Popularimeter) ([]byte, error) {
	email, err := EncodingLatin1.encodeString(p.Email)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(email)
	buf.WriteByte(0)
	buf.WriteByte(p.Rating)
	// At least 4 counter bytes, more when the count needs them.
	width := 4
	for v := p.Counter >> 32; v > 0; v >>= 8 {
		width++
	}
	for i := width - 1; i >= 0; i-- {
		buf.WriteByte(byte(p.Counter >> (8 * i)))
	}
	return buf.Bytes(), nil
}
