package id3

import (
	"io"
	"os"
)

// Format describes which tag families are present in a file.
type Format int

const (
	FormatNone Format = iota
	FormatID3v1
	FormatID3v2
	// FormatBoth marks files carrying an ID3v2 header and a trailing
	// ID3v1 tag at once.
	FormatBoth
)

func (f Format) String() string {
	switch f {
	case FormatID3v1:
		return "ID3v1"
	case FormatID3v2:
		return "ID3v2"
	case FormatBoth:
		return "ID3v1+ID3v2"
	default:
		return "none"
	}
}

// DetectFormat probes both ends of the file for tags.
func DetectFormat(f io.ReadSeeker) (Format, error) {
	v2, err := DetectV2(f)
	if err != nil {
		return FormatNone, err
	}
	v1, err := DetectV1(f)
	if err != nil {
		return FormatNone, err
	}
	switch {
	case v1 && v2:
		return FormatBoth, nil
	case v2:
		return FormatID3v2, nil
	case v1:
		return FormatID3v1, nil
	default:
		return FormatNone, nil
	}
}

// DetectFormatPath probes the named file for tags.
func DetectFormatPath(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatNone, ioError(err, "opening "+path)
	}
	defer f.Close()
	return DetectFormat(f)
}

// ReadAny reads the richest available tag: the ID3v2 tag when present,
// otherwise the trailing ID3v1 tag lifted into an ID3v2 representation.
// A file with neither reports ErrNoTag.
func ReadAny(f io.ReadSeeker) (*Tag, error) {
	tag, err := ReadFromFile(f)
	if err == nil {
		return tag, nil
	}
	if kindOf(err) != ErrNoTag {
		return nil, err
	}
	v1, err := ReadV1(f)
	if err != nil {
		return nil, err
	}
	return v1.ToTag(), nil
}

// ReadAnyPath reads the richest available tag of the named file.
func ReadAnyPath(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "opening "+path)
	}
	defer f.Close()
	return ReadAny(f)
}

// WriteToFile splices the tag into the file as ID3v2 and strips any
// trailing ID3v1 tag, so the two never disagree afterwards.
func (t *Tag) WriteToFile(f StorageFile, v Version) error {
	if err := t.WriteTo(f, v); err != nil {
		return err
	}
	_, err := RemoveV1(f)
	return err
}

// WriteToFilePath splices the tag into the named file as ID3v2,
// stripping any trailing ID3v1 tag.
func (t *Tag) WriteToFilePath(path string, v Version) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ioError(err, "opening "+path)
	}
	defer f.Close()
	return t.WriteToFile(f, v)
}

// RemoveAllTags strips both tag families, reporting which were present.
func RemoveAllTags(f StorageFile) (Format, error) {
	// The trailing tag goes first so the front splice shifts less data.
	v1, err := RemoveV1(f)
	if err != nil {
		return FormatNone, err
	}
	v2, err := RemoveV2(f)
	if err != nil {
		return FormatNone, err
	}
	switch {
	case v1 && v2:
		return FormatBoth, nil
	case v2:
		return FormatID3v2, nil
	case v1:
		return FormatID3v1, nil
	default:
		return FormatNone, nil
	}
}

// RemoveAllTagsPath strips both tag families from the named file.
func RemoveAllTagsPath(path string) (Format, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return FormatNone, ioError(err, "opening "+path)
	}
	defer f.Close()
	return RemoveAllTags(f)
}
