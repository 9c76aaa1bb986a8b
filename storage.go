package id3

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
)

// StorageFile is the capability contract the splicer needs from the
// environment: positioned reads and writes via Seek, and a length
// change. *os.File satisfies it. The handle is exclusively owned by
// the caller for the duration of a call and never retained.
type StorageFile interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
}

// spliceChunk bounds peak memory while shifting the audio payload.
const spliceChunk = 32 * 1024

func ioError(err error, msg string) error {
	return wrapError(ErrIo, pkgerrors.Wrap(err, msg), "storage operation failed")
}

// tagRegion locates the existing tag region [0, end). A missing magic
// is reported as found == false, distinct from the fatal malformed-tag
// and unsupported-version errors.
func tagRegion(f StorageFile) (end int64, found bool, err error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, false, ioError(err, "seeking to tag anchor")
	}
	head := make([]byte, tagHeaderSize)
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, false, nil
		}
		return 0, false, ioError(err, "reading tag header")
	}
	header, err := parseTagHeader(head)
	if err != nil {
		if kindOf(err) == ErrNoTag {
			return 0, false, nil
		}
		return 0, false, err
	}
	end = tagHeaderSize + int64(header.size)
	if header.footer() {
		end += tagHeaderSize
	}
	return end, true, nil
}

func fileLength(f StorageFile) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioError(err, "measuring file length")
	}
	return size, nil
}

func readAt(f StorageFile, b []byte, off int64) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return ioError(err, "seeking for read")
	}
	if _, err := io.ReadFull(f, b); err != nil {
		return ioError(err, "reading chunk")
	}
	return nil
}

func writeAt(f StorageFile, b []byte, off int64) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return ioError(err, "seeking for write")
	}
	if _, err := f.Write(b); err != nil {
		return ioError(err, "writing chunk")
	}
	return nil
}

// replaceTagRegion splices tag over the existing tag region without
// re-copying the trailing audio payload unless the region has to grow.
//
// When the new tag fits, the remainder of the old region is zeroed and
// nothing past it is touched. When it does not, the payload is shifted
// forward back-to-front in fixed-size chunks after extending the file,
// and the 10-byte header is written last, so an interrupted write
// leaves either the old or the new tag intact rather than a torn
// hybrid. The in-place resize is deliberately non-transactional.
func replaceTagRegion(f StorageFile, tag []byte) error {
	oldEnd, _, err := tagRegion(f)
	if err != nil {
		return err
	}
	newLen := int64(len(tag))

	if newLen <= oldEnd {
		if err := writeAt(f, tag, 0); err != nil {
			return err
		}
		return zeroFill(f, newLen, oldEnd)
	}

	size, err := fileLength(f)
	if err != nil {
		return err
	}
	delta := newLen - oldEnd
	if err := f.Truncate(size + delta); err != nil {
		return ioError(err, "extending file")
	}
	buf := make([]byte, spliceChunk)
	for src := size; src > oldEnd; {
		n := int64(spliceChunk)
		if src-oldEnd < n {
			n = src - oldEnd
		}
		src -= n
		if err := readAt(f, buf[:n], src); err != nil {
			return err
		}
		if err := writeAt(f, buf[:n], src+delta); err != nil {
			return err
		}
	}
	if err := writeAt(f, tag[tagHeaderSize:], tagHeaderSize); err != nil {
		return err
	}
	return writeAt(f, tag[:tagHeaderSize], 0)
}

func zeroFill(f StorageFile, from, to int64) error {
	if from >= to {
		return nil
	}
	zeros := make([]byte, spliceChunk)
	for off := from; off < to; {
		n := int64(spliceChunk)
		if to-off < n {
			n = to - off
		}
		if err := writeAt(f, zeros[:n], off); err != nil {
			return err
		}
		off += n
	}
	return nil
}

// removeTagRegion deletes the ID3v2 tag by shifting the payload to the
// front of the file and truncating. It reports whether a tag was
// present.
func removeTagRegion(f StorageFile) (bool, error) {
	oldEnd, found, err := tagRegion(f)
	if err != nil || !found {
		return false, err
	}
	size, err := fileLength(f)
	if err != nil {
		return false, err
	}
	buf := make([]byte, spliceChunk)
	for off := oldEnd; off < size; {
		n := int64(spliceChunk)
		if size-off < n {
			n = size - off
		}
		if err := readAt(f, buf[:n], off); err != nil {
			return false, err
		}
		if err := writeAt(f, buf[:n], off-oldEnd); err != nil {
			return false, err
		}
		off += n
	}
	if err := f.Truncate(size - oldEnd); err != nil {
		return false, ioError(err, "truncating removed tag region")
	}
	return true, nil
}

// WriteTo serializes the tag for the target revision and splices it
// into f at offset 0. Frame or header construction errors abort before
// any byte reaches the store.
func (t *Tag) WriteTo(f StorageFile, v Version) error {
	b, err := NewEncoder(v).Bytes(t)
	if err != nil {
		return err
	}
	return replaceTagRegion(f, b)
}

// WriteToPath opens the file read-write and splices the tag into it.
func (t *Tag) WriteToPath(path string, v Version) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ioError(err, "opening "+path)
	}
	defer f.Close()
	return t.WriteTo(f, v)
}

// ReadFromFile locates and parses the tag in a seekable handle.
func ReadFromFile(f io.ReadSeeker) (*Tag, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, ioError(err, "seeking to tag anchor")
	}
	return ReadFrom(f)
}

// ReadFromPath parses the tag of the named file.
func ReadFromPath(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "opening "+path)
	}
	defer f.Close()
	return ReadFrom(f)
}

// DetectV2 reports whether r starts with a supported ID3v2 header.
func DetectV2(r io.ReadSeeker) (bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, ioError(err, "seeking to tag anchor")
	}
	head := make([]byte, tagHeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, ioError(err, "reading tag header")
	}
	_, err := parseTagHeader(head)
	switch kindOf(err) {
	case ErrNoTag, ErrUnsupportedVersion:
		return false, nil
	}
	return err == nil, err
}

// RemoveV2 deletes any ID3v2 tag from f, reporting whether one was
// present.
func RemoveV2(f StorageFile) (bool, error) {
	return removeTagRegion(f)
}

// RemoveV2Path deletes any ID3v2 tag from the named file.
func RemoveV2Path(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, ioError(err, "opening "+path)
	}
	defer f.Close()
	return RemoveV2(f)
}
