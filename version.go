package id3

import "fmt"

// Version selects one of the three ID3v2 revisions. Every codec
// function takes the version as an explicit parameter; the byte
// layouts of the header, the frame headers and the legal text
// encodings all depend on it.
type Version byte

const (
	Version22 Version = 2
	Version23 Version = 3
	Version24 Version = 4
)

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d", byte(v))
}

// frameIDLen is the width of frame identifiers in this revision.
func (v Version) frameIDLen() int {
	if v == Version22 {
		return 3
	}
	return 4
}

// frameHeaderLen is the width of a frame header in this revision.
func (v Version) frameHeaderLen() int {
	if v == Version22 {
		return 6
	}
	return 10
}

func supportedVersion(major byte) (Version, bool) {
	switch Version(major) {
	case Version22, Version23, Version24:
		return Version(major), true
	}
	return 0, false
}
