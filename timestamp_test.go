package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in  string
		out Timestamp
	}{
		{"2009-11-10T23:01:02", Timestamp{2009, 11, 10, 23, 1, 2}},
		{"2009-11-10T23:01", Timestamp{2009, 11, 10, 23, 1, -1}},
		{"2009-11-10T23", Timestamp{2009, 11, 10, 23, -1, -1}},
		{"2009-11-10", Timestamp{2009, 11, 10, -1, -1, -1}},
		{"2009-11", Timestamp{2009, 11, -1, -1, -1, -1}},
		{"2009", Timestamp{2009, -1, -1, -1, -1, -1}},
	}
	for _, test := range tests {
		ts, err := ParseTimestamp(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.out, ts, test.in)
		assert.Equal(t, test.in, ts.String(), "formatting is not the inverse of parsing")
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	bad := []string{
		"",
		"209",
		"20xx",
		"2009-",
		"2009-1",
		"2009/11",
		"2009-11-10 23:01",
		"2009-11-10T23:01:02Z",
	}
	for _, in := range bad {
		_, err := ParseTimestamp(in)
		require.Error(t, err, in)
		assert.Equal(t, ErrParsing, kindOf(err), in)
	}
}

func TestTimestampStringZeroPads(t *testing.T) {
	ts := Timestamp{Year: 33, Month: 2, Day: 3, Hour: -1, Minute: -1, Second: -1}
	assert.Equal(t, "0033-02-03", ts.String())
}
