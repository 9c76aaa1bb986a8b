package id3

import (
	"bytes"
	"io"

	"go.uber.org/zap"
)

var (
	id3Magic    = []byte("ID3")
	footerMagic = []byte("3DI")
)

const tagHeaderSize = 10

// Tag header flags.
const (
	tagFlagUnsync         = 1 << 7
	tagFlagExtendedHeader = 1 << 6 // whole-tag compression in v2.2
	tagFlagExperimental   = 1 << 5
	tagFlagFooter         = 1 << 4 // v2.4 only
)

type tagHeader struct {
	version Version
	flags   byte
	size    int
}

func (h tagHeader) unsynchronisation() bool { return h.flags&tagFlagUnsync != 0 }
func (h tagHeader) extendedHeader() bool {
	return h.version != Version22 && h.flags&tagFlagExtendedHeader != 0
}
func (h tagHeader) footer() bool {
	return h.version == Version24 && h.flags&tagFlagFooter != 0
}

// parseTagHeader decodes the fixed 10-byte header. A wrong magic is
// ErrNoTag, distinct from the fatal parsing and version errors.
func parseTagHeader(b []byte) (tagHeader, error) {
	if len(b) < tagHeaderSize || !bytes.Equal(b[:3], id3Magic) {
		return tagHeader{}, newError(ErrNoTag, "no ID3v2 header found")
	}
	version, ok := supportedVersion(b[3])
	if !ok {
		return tagHeader{}, newError(ErrUnsupportedVersion, "unsupported version ID3v2.%d.%d", b[3], b[4])
	}
	size, err := desyncsafeInt([4]byte(b[6:10]))
	if err != nil {
		return tagHeader{}, err
	}
	return tagHeader{version: version, flags: b[5], size: size}, nil
}

// Decoder reads one ID3v2 tag from a reader positioned at the tag's
// first byte.
type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Parse reads and decodes a complete tag.
//
// Frame-level failures do not abort the read: the offending frames are
// skipped and reported through an error carrying the rest of the tag,
// which PartialTagOk unwraps. Header-level failures are fatal.
func (d *Decoder) Parse() (*Tag, error) {
	head := make([]byte, tagHeaderSize)
	if _, err := io.ReadFull(d.r, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, newError(ErrNoTag, "no ID3v2 header found")
		}
		return nil, wrapError(ErrIo, err, "reading tag header")
	}
	header, err := parseTagHeader(head)
	if err != nil {
		return nil, err
	}
	if header.version == Version22 && header.flags&tagFlagExtendedHeader != 0 {
		return nil, newError(ErrUnsupportedFeature, "ID3v2.2 whole-tag compression is not supported")
	}

	body := make([]byte, header.size)
	if _, err := io.ReadFull(d.r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, newError(ErrParsing, "tag shorter than its declared size %d", header.size)
		}
		return nil, wrapError(ErrIo, err, "reading tag body")
	}
	if header.footer() {
		foot := make([]byte, tagHeaderSize)
		if _, err := io.ReadFull(d.r, foot); err != nil {
			return nil, newError(ErrParsing, "tag footer missing")
		}
		if !bytes.Equal(foot[:3], footerMagic) {
			return nil, newError(ErrParsing, "invalid tag footer magic %q", foot[:3])
		}
	}

	// Whole-tag unsynchronisation covers everything after the header.
	// In v2.4 the transform is scoped per frame; a set tag flag there
	// means every frame is unsynchronised.
	tagUnsync := false
	if header.unsynchronisation() {
		if header.version < Version24 {
			body = removeUnsync(body)
		} else {
			tagUnsync = true
		}
	}

	if header.extendedHeader() {
		body, err = skipExtendedHeader(body, header.version)
		if err != nil {
			return nil, err
		}
	}

	tag := &Tag{version: header.version}
	var firstErr *Error
	var skipped []SkippedFrame
	for off := 0; off < len(body); {
		if body[off] == 0 {
			// Padding starts here.
			break
		}
		frame, n, err := decodeFrame(body[off:], header.version, tagUnsync)
		if err != nil {
			e, ok := err.(*Error)
			if !ok || n == 0 {
				// The frame boundary itself is gone; the rest of the
				// frame area cannot be walked.
				if firstErr == nil && ok {
					firstErr = e
				}
				logger.Warn("aborting frame walk", zap.Error(err))
				break
			}
			id := string(body[off : off+header.version.frameIDLen()])
			skipped = append(skipped, SkippedFrame{ID: id, Kind: e.Kind})
			logger.Warn("skipping undecodable frame",
				zap.String("id", id),
				zap.String("kind", e.Kind.String()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = e
			}
			off += n
			continue
		}
		tag.frames = append(tag.frames, frame)
		off += n
	}

	if header.version < Version24 {
		tag.bridgeLegacyDates()
	}

	if firstErr != nil {
		firstErr.Partial = tag
		firstErr.Skipped = skipped
		return nil, firstErr
	}
	return tag, nil
}

// skipExtendedHeader drops the extended header from the frame area.
// Its contents (CRC, restrictions) are not semantically used; only the
// parsing offset changes.
func skipExtendedHeader(body []byte, v Version) ([]byte, error) {
	if len(body) < 4 {
		return nil, newError(ErrParsing, "truncated extended header")
	}
	var skip int
	switch v {
	case Version23:
		// The v2.3 size field excludes itself.
		skip = 4 + beUint32([4]byte(body[:4]))
	default:
		// The v2.4 syncsafe size covers the whole extended header.
		size, err := desyncsafeInt([4]byte(body[:4]))
		if err != nil {
			return nil, err
		}
		skip = size
	}
	if skip < 4 || skip > len(body) {
		return nil, newError(ErrParsing, "extended header size %d out of range", skip)
	}
	return body[skip:], nil
}

// ReadFrom reads an ID3v2 tag from a reader positioned at its first
// byte.
func ReadFrom(r io.Reader) (*Tag, error) {
	return NewDecoder(r).Parse()
}
