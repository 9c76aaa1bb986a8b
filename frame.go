package id3

import (
	"bytes"
	"compress/zlib"
	"io"
)

// Frame is one metadata record inside an ID3v2 tag: a canonical
// identifier, a set of flags and a typed payload.
type Frame struct {
	id      string
	flags   FrameFlags
	content Content
}

// NewFrame returns a frame with the given canonical identifier and
// payload and empty flags.
func NewFrame(id string, content Content) Frame {
	return Frame{id: id, content: content}
}

// ID returns the frame identifier in canonical 4-character form.
// Frames read from an ID3v2.2 tag are normalized on read; only
// identifiers with no known canonical equivalent keep their legacy
// 3-character form.
func (f Frame) ID() string {
	return f.id
}

func (f Frame) Flags() FrameFlags {
	return f.flags
}

// WithFlags returns a copy of the frame with the given flags. Flags a
// target revision cannot express are dropped on write.
func (f Frame) WithFlags(flags FrameFlags) Frame {
	f.flags = flags
	return f
}

func (f Frame) Content() Content {
	return f.content
}

// Value returns the first text value for text-shaped frames and ""
// for everything else.
func (f Frame) Value() string {
	switch c := f.content.(type) {
	case Text:
		return c.Value()
	case ExtendedText:
		return c.Value
	case Link:
		return c.URL
	case ExtendedLink:
		return c.URL
	case Comment:
		return c.Text
	case Lyrics:
		return c.Text
	case Timestamp:
		return c.String()
	default:
		return ""
	}
}

// FrameFlags is the decoded per-frame flag set. The wire layout of the
// two flag bytes differs between v2.3 and v2.4; v2.2 frames have no
// flags at all.
type FrameFlags struct {
	TagAlterPreservation  bool
	FileAlterPreservation bool
	ReadOnly              bool
	Grouping              bool
	GroupID               byte
	Compression           bool
	Encryption            bool
	EncryptionMethod      byte
	// Unsynchronisation and DataLengthIndicator exist in v2.4 only.
	Unsynchronisation   bool
	DataLengthIndicator bool
}

const (
	// ID3v2.3 frame flags.
	v23FlagTagAlter    = 1 << 15
	v23FlagFileAlter   = 1 << 14
	v23FlagReadOnly    = 1 << 13
	v23FlagCompression = 1 << 7
	v23FlagEncryption  = 1 << 6
	v23FlagGrouping    = 1 << 5

	// ID3v2.4 frame flags.
	v24FlagTagAlter    = 1 << 14
	v24FlagFileAlter   = 1 << 13
	v24FlagReadOnly    = 1 << 12
	v24FlagGrouping    = 1 << 6
	v24FlagCompression = 1 << 3
	v24FlagEncryption  = 1 << 2
	v24FlagUnsync      = 1 << 1
	v24FlagDataLength  = 1 << 0
)

func parseFrameFlags(raw uint16, v Version) FrameFlags {
	switch v {
	case Version23:
		return FrameFlags{
			TagAlterPreservation:  raw&v23FlagTagAlter != 0,
			FileAlterPreservation: raw&v23FlagFileAlter != 0,
			ReadOnly:              raw&v23FlagReadOnly != 0,
			Compression:           raw&v23FlagCompression != 0,
			Encryption:            raw&v23FlagEncryption != 0,
			Grouping:              raw&v23FlagGrouping != 0,
		}
	case Version24:
		return FrameFlags{
			TagAlterPreservation:  raw&v24FlagTagAlter != 0,
			FileAlterPreservation: raw&v24FlagFileAlter != 0,
			ReadOnly:              raw&v24FlagReadOnly != 0,
			Grouping:              raw&v24FlagGrouping != 0,
			Compression:           raw&v24FlagCompression != 0,
			Encryption:            raw&v24FlagEncryption != 0,
			Unsynchronisation:     raw&v24FlagUnsync != 0,
			DataLengthIndicator:   raw&v24FlagDataLength != 0,
		}
	default:
		return FrameFlags{}
	}
}

func (f FrameFlags) encode(v Version) uint16 {
	var raw uint16
	set := func(cond bool, bit uint16) {
		if cond {
			raw |= bit
		}
	}
	switch v {
	case Version23:
		set(f.TagAlterPreservation, v23FlagTagAlter)
		set(f.FileAlterPreservation, v23FlagFileAlter)
		set(f.ReadOnly, v23FlagReadOnly)
		set(f.Compression, v23FlagCompression)
		set(f.Encryption, v23FlagEncryption)
		set(f.Grouping, v23FlagGrouping)
	case Version24:
		set(f.TagAlterPreservation, v24FlagTagAlter)
		set(f.FileAlterPreservation, v24FlagFileAlter)
		set(f.ReadOnly, v24FlagReadOnly)
		set(f.Grouping, v24FlagGrouping)
		set(f.Compression, v24FlagCompression)
		set(f.Encryption, v24FlagEncryption)
		set(f.Unsynchronisation, v24FlagUnsync)
		set(f.DataLengthIndicator, v24FlagDataLength)
	}
	return raw
}

// decodeFrame parses one frame starting at b[0] and returns it along
// with the number of bytes consumed. tagUnsync marks a v2.4 tag whose
// header requests unsynchronisation for every frame.
//
// Errors that leave the frame boundary intact (a bad body) report the
// consumed length anyway so that callers running under a partial-tag
// policy can skip the frame and keep walking; errors with consumed ==
// 0 mean the walk cannot continue.
func decodeFrame(b []byte, v Version, tagUnsync bool) (Frame, int, error) {
	headerLen := v.frameHeaderLen()
	idLen := v.frameIDLen()
	if len(b) < headerLen {
		return Frame{}, 0, newError(ErrParsing, "truncated frame header")
	}
	rawID := b[:idLen]
	if !validFrameID(rawID) {
		return Frame{}, 0, newError(ErrParsing, "invalid frame identifier %q", rawID)
	}

	var size int
	var flags FrameFlags
	switch v {
	case Version22:
		size = beUint24(b[3:6])
	case Version23:
		size = beUint32([4]byte(b[4:8]))
		flags = parseFrameFlags(uint16(b[8])<<8|uint16(b[9]), v)
	case Version24:
		var err error
		size, err = desyncsafeInt([4]byte(b[4:8]))
		if err != nil {
			return Frame{}, 0, err
		}
		flags = parseFrameFlags(uint16(b[8])<<8|uint16(b[9]), v)
	}
	if len(b) < headerLen+size {
		return Frame{}, 0, newError(ErrParsing, "frame %q body extends past the tag", rawID)
	}
	id := string(rawID)
	if v == Version22 {
		id = canonicalID(id)
	}
	consumed := headerLen + size
	body := b[headerLen:consumed]

	// v2.4 per-frame unsynchronisation is undone before the body is
	// interpreted in any other way.
	if flags.Unsynchronisation || (v == Version24 && tagUnsync) {
		body = removeUnsync(body)
	}

	if flags.Encryption {
		return Frame{}, consumed, newError(ErrUnsupportedFeature, "frame %q is encrypted", id)
	}
	// The extra header data is ordered differently in the two flagged
	// revisions: v2.3 puts the decompressed size first and the group
	// byte last, v2.4 leads with the group byte and trails with the
	// data length indicator.
	switch v {
	case Version23:
		if flags.Compression {
			if len(body) < 4 {
				return Frame{}, consumed, truncatedErr()
			}
			body = body[4:]
		}
		if flags.Grouping {
			if len(body) < 1 {
				return Frame{}, consumed, truncatedErr()
			}
			flags.GroupID = body[0]
			body = body[1:]
		}
	case Version24:
		if flags.Grouping {
			if len(body) < 1 {
				return Frame{}, consumed, truncatedErr()
			}
			flags.GroupID = body[0]
			body = body[1:]
		}
		if flags.DataLengthIndicator {
			if len(body) < 4 {
				return Frame{}, consumed, truncatedErr()
			}
			// The indicated pre-transform length is implied by the
			// inflated body; nothing else consumes it.
			if _, err := desyncsafeInt([4]byte(body[:4])); err != nil {
				return Frame{}, consumed, err
			}
			body = body[4:]
		}
	}
	if flags.Compression {
		inflated, err := inflate(body)
		if err != nil {
			return Frame{}, consumed, wrapError(ErrParsing, err, "inflating frame "+id)
		}
		body = inflated
	}

	content, err := decodeContent(id, v, body)
	if err != nil {
		return Frame{}, consumed, err
	}
	return Frame{id: id, flags: flags, content: content}, consumed, nil
}

// encodeFrame serializes the frame for the target revision and appends
// it to buf. Content encode, compression and per-frame
// unsynchronisation are applied in that order, then the header is
// written with the recomputed size.
func encodeFrame(buf *bytes.Buffer, f Frame, v Version, forceUnsync bool) error {
	if f.flags.Encryption {
		return newError(ErrUnsupportedFeature, "cannot write encrypted frame %q", f.id)
	}

	id := f.id
	switch v {
	case Version22:
		legacy, ok := legacyID(f.id)
		if !ok {
			if len(f.id) == 3 {
				legacy = f.id // unmapped legacy id read from a v2.2 tag
			} else {
				return newError(ErrUnsupportedFeature, "frame %q has no ID3v2.2 identifier", f.id)
			}
		}
		id = legacy
	default:
		if len(f.id) != 4 {
			return newError(ErrUnsupportedFeature, "frame %q has no %s identifier", f.id, v)
		}
	}

	body, err := encodeContent(f.content, v)
	if err != nil {
		return err
	}

	flags := f.flags
	if v == Version22 {
		flags = FrameFlags{}
	}
	uncompressed := len(body)
	if flags.Compression {
		body = deflate(body)
	}
	switch v {
	case Version23:
		flags.DataLengthIndicator = false
		flags.Unsynchronisation = false
		if flags.Grouping {
			body = append([]byte{flags.GroupID}, body...)
		}
		if flags.Compression {
			size := beUint32Bytes(uncompressed)
			body = append(size[:], body...)
		}
	case Version24:
		if flags.Compression {
			flags.DataLengthIndicator = true
		}
		if flags.DataLengthIndicator {
			dli := syncsafeInt(uncompressed)
			body = append(dli[:], body...)
		}
		if flags.Grouping {
			body = append([]byte{flags.GroupID}, body...)
		}
	}
	if v == Version24 && (flags.Unsynchronisation || forceUnsync) {
		flags.Unsynchronisation = true
		body = applyUnsync(body, v)
	} else {
		flags.Unsynchronisation = false
	}

	// The 3-byte v2.2 size field cannot carry what the 28-bit tag size
	// still allows.
	if v == Version22 && len(body) > 0xFFFFFF {
		return newError(ErrUnsupportedFeature, "frame %q body of %d bytes exceeds the %s frame size limit", id, len(body), v)
	}

	buf.WriteString(id)
	switch v {
	case Version22:
		size := beUint24Bytes(len(body))
		buf.Write(size[:])
	case Version23:
		size := beUint32Bytes(len(body))
		buf.Write(size[:])
		raw := flags.encode(v)
		buf.WriteByte(byte(raw >> 8))
		buf.WriteByte(byte(raw))
	case Version24:
		size := syncsafeInt(len(body))
		buf.Write(size[:])
		raw := flags.encode(v)
		buf.WriteByte(byte(raw >> 8))
		buf.WriteByte(byte(raw))
	}
	buf.Write(body)
	return nil
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func deflate(b []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(b)
	w.Close()
	return buf.Bytes()
}
