package id3

import (
	"bytes"
	"io"
)

// Encoder serializes tags for one target revision. The zero value is
// not usable; construct with NewEncoder.
type Encoder struct {
	version Version
	padding int
	unsync  bool
	footer  bool
}

// NewEncoder returns an encoder targeting the given revision with no
// padding, no unsynchronisation and no footer.
func NewEncoder(version Version) *Encoder {
	return &Encoder{version: version}
}

// WithPadding reserves n zero bytes after the last frame, allowing
// small tag growth without resizing the file. Ignored when a footer is
// written, as the two are mutually exclusive.
func (e *Encoder) WithPadding(n int) *Encoder {
	e.padding = n
	return e
}

// WithUnsynchronisation makes the encoder unsynchronise the tag: the
// whole frame area for v2.2/v2.3, each frame separately for v2.4.
func (e *Encoder) WithUnsynchronisation(u bool) *Encoder {
	e.unsync = u
	return e
}

// WithFooter appends the ID3v2.4 footer. Only valid for Version24.
func (e *Encoder) WithFooter(f bool) *Encoder {
	e.footer = f
	return e
}

// Bytes serializes the tag to a self-contained byte buffer. Any frame
// that cannot be represented in the target revision fails the whole
// encode; nothing is partially written.
func (e *Encoder) Bytes(t *Tag) ([]byte, error) {
	if e.footer && e.version != Version24 {
		return nil, newError(ErrUnsupportedFeature, "%s does not define a footer", e.version)
	}

	var frameBuf bytes.Buffer
	for _, f := range t.framesForVersion(e.version) {
		if err := encodeFrame(&frameBuf, f, e.version, e.unsync); err != nil {
			return nil, err
		}
	}
	body := frameBuf.Bytes()

	var flags byte
	if e.unsync {
		flags |= tagFlagUnsync
		if e.version < Version24 {
			body = applyUnsync(body, e.version)
		}
	}
	padding := e.padding
	if e.footer {
		flags |= tagFlagFooter
		padding = 0
	}

	size := len(body) + padding
	if size > syncsafeMax {
		return nil, newError(ErrParsing, "tag size %d exceeds the syncsafe maximum", size)
	}

	out := make([]byte, 0, tagHeaderSize+size)
	out = appendTagHeader(out, id3Magic, e.version, flags, size)
	out = append(out, body...)
	out = append(out, make([]byte, padding)...)
	if e.footer {
		out = appendTagHeader(out, footerMagic, e.version, flags, size)
	}
	return out, nil
}

// Encode serializes the tag and writes it to w in a single pass.
func (e *Encoder) Encode(w io.Writer, t *Tag) error {
	b, err := e.Bytes(t)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return wrapError(ErrIo, err, "writing tag")
	}
	return nil
}

func appendTagHeader(out []byte, magic []byte, v Version, flags byte, size int) []byte {
	out = append(out, magic...)
	out = append(out, byte(v), 0, flags)
	ss := syncsafeInt(size)
	return append(out, ss[:]...)
}
