package id3

// Unsynchronisation stuffs a 0x00 after 0xFF bytes that would
// otherwise form an MPEG sync marker with the byte that follows.
// The insertion predicate differs between revisions; removal is the
// same for all of them.

// removeUnsync reverses unsynchronisation: every 0xFF 0x00 pair
// becomes a lone 0xFF.
func removeUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// needsStuffing reports whether a 0x00 must be inserted between 0xFF
// and next. ID3v2.4 tightened the rule: it stuffs only before a sync
// pattern (%111xxxxx) or a 0x00, while v2.3 additionally guards the
// end of the buffer (see applyUnsync).
func needsStuffing(next byte) bool {
	return next&0xE0 == 0xE0 || next == 0x00
}

// applyUnsync unsynchronises b according to the revision's insertion
// rule. Removing the result yields b again.
func applyUnsync(b []byte, v Version) []byte {
	out := make([]byte, 0, len(b)+len(b)/64)
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] != 0xFF {
			continue
		}
		if i+1 < len(b) {
			if needsStuffing(b[i+1]) {
				out = append(out, 0x00)
			}
		} else if v < Version24 {
			// v2.3 stuffs a trailing 0xFF so it cannot combine with
			// whatever follows the tag.
			out = append(out, 0x00)
		}
	}
	return out
}

// hasFalseSync reports whether b still contains a byte pair that could
// be mistaken for an MPEG sync marker. 0xFF 0x00 pairs do not count:
// they are the escape sequence itself.
func hasFalseSync(b []byte, v Version) bool {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == 0xFF && b[i+1]&0xE0 == 0xE0 {
			return true
		}
	}
	return v < Version24 && len(b) > 0 && b[len(b)-1] == 0xFF
}
