package id3

import (
	"fmt"
	"strconv"
)

// Timestamp is a partial ISO-8601 timestamp as used by the ID3v2.4
// time frames (TDRC and friends). Every component except the year is
// optional; absent components are -1, not zero, and a parsed value
// formats back to exactly the string it was parsed from.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseTimestamp parses the prefix forms "yyyy", "yyyy-MM",
// "yyyy-MM-dd", "yyyy-MM-ddTHH", "yyyy-MM-ddTHH:mm" and
// "yyyy-MM-ddTHH:mm:ss".
func ParseTimestamp(s string) (Timestamp, error) {
	ts := Timestamp{Month: -1, Day: -1, Hour: -1, Minute: -1, Second: -1}
	malformed := func() (Timestamp, error) {
		return Timestamp{}, newError(ErrParsing, "malformed timestamp %q", s)
	}

	if len(s) < 4 {
		return malformed()
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return malformed()
	}
	ts.Year = year

	fields := []struct {
		sep  byte
		dest *int
	}{
		{'-', &ts.Month},
		{'-', &ts.Day},
		{'T', &ts.Hour},
		{':', &ts.Minute},
		{':', &ts.Second},
	}
	rest := s[4:]
	for _, f := range fields {
		if rest == "" {
			return ts, nil
		}
		if len(rest) < 3 || rest[0] != f.sep {
			return malformed()
		}
		n, err := strconv.Atoi(rest[1:3])
		if err != nil {
			return malformed()
		}
		*f.dest = n
		rest = rest[3:]
	}
	if rest != "" {
		return malformed()
	}
	return ts, nil
}

func (t Timestamp) String() string {
	s := fmt.Sprintf("%04d", t.Year)
	parts := []struct {
		sep byte
		val int
	}{
		{'-', t.Month},
		{'-', t.Day},
		{'T', t.Hour},
		{':', t.Minute},
		{':', t.Second},
	}
	for _, p := range parts {
		if p.val < 0 {
			break
		}
		s += fmt.Sprintf("%c%02d", p.sep, p.val)
	}
	return s
}
