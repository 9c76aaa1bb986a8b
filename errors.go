package id3

import "fmt"

// ErrorKind classifies the failures that can occur while reading or
// writing tags.
type ErrorKind int

const (
	// ErrNoTag means no recognizable ID3v2 magic was found. Absence of
	// a tag is often a valid outcome; see NoTagOk.
	ErrNoTag ErrorKind = iota
	// ErrUnsupportedVersion means the tag header declares a major
	// version this library does not implement.
	ErrUnsupportedVersion
	// ErrParsing covers malformed headers, bad syncsafe bytes,
	// truncated frames and invalid encoding bytes.
	ErrParsing
	// ErrUnsupportedFeature is returned for encrypted frames and for
	// frames that cannot be represented in the requested target
	// version.
	ErrUnsupportedFeature
	// ErrStringDecoding means a string did not decode cleanly in its
	// declared encoding.
	ErrStringDecoding
	// ErrIo wraps errors propagated from the storage layer.
	ErrIo
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNoTag:
		return "NoTag"
	case ErrUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrParsing:
		return "Parsing"
	case ErrUnsupportedFeature:
		return "UnsupportedFeature"
	case ErrStringDecoding:
		return "StringDecoding"
	case ErrIo:
		return "Io"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SkippedFrame identifies a frame dropped during a partial read.
type SkippedFrame struct {
	ID   string
	Kind ErrorKind
}

// Error is the error type returned by all tag operations.
type Error struct {
	Kind        ErrorKind
	Description string
	// Err is the underlying cause, if any.
	Err error
	// Partial holds the frames that decoded cleanly when a read failed
	// only at the frame level. See PartialTagOk.
	Partial *Tag
	// Skipped lists every frame dropped from Partial, in tag order.
	// Kind and Description describe the first of them.
	Skipped []SkippedFrame
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Description: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, desc string) *Error {
	return &Error{Kind: kind, Description: desc, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// kindOf extracts the ErrorKind of err, or -1 if err is not an *Error.
func kindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ErrorKind(-1)
}

// NoTagOk treats the absence of a tag as a valid outcome. It passes
// tag and err through unchanged except when err is of kind ErrNoTag,
// in which case it returns (nil, nil).
func NoTagOk(tag *Tag, err error) (*Tag, error) {
	if kindOf(err) == ErrNoTag {
		return nil, nil
	}
	return tag, err
}

// PartialTagOk treats per-frame parsing failures as recoverable. If
// err carries a partial tag, the partial tag is returned along with a
// nil error; frames that failed to decode have been skipped. All other
// results pass through unchanged.
func PartialTagOk(tag *Tag, err error) (*Tag, error) {
	if e, ok := err.(*Error); ok && e.Partial != nil {
		return e.Partial, nil
	}
	return tag, err
}
