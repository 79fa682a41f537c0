package subtitle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:02,500
Hello there.

2
00:00:02,500 --> 00:00:05,000
Second caption
with two lines.

3
00:01:05,000 --> 00:01:08,250
Third.
`

func TestParseSample(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleSRT))
	require.NoError(t, err)
	require.Len(t, track, 3)

	assert.Equal(t, 1, track[0].Index)
	assert.Equal(t, 0, track[0].Start)
	assert.Equal(t, 2500, track[0].End)
	assert.Equal(t, "Hello there.", track[0].Text)

	assert.Equal(t, "Second caption\nwith two lines.", track[1].Text)

	assert.Equal(t, 65000, track[2].Start)
	assert.Equal(t, 68250, track[2].End)
}

func TestRoundTrip(t *testing.T) {
	track := Track{
		{Index: 1, Start: 0, End: 1500, Text: "First"},
		{Index: 2, Start: 1500, End: 61250, Text: "Second\nmultiline"},
		{Index: 3, Start: 3661500, End: 3700000, Text: "Third."},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, track))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, track, parsed)
}

func TestParseInvalidIndex(t *testing.T) {
	_, err := Parse(strings.NewReader("not-a-number\n00:00:00,000 --> 00:00:01,000\nhi\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
	assert.Contains(t, perr.Reason, "invalid subtitle index")
}

func TestParseInvalidTimeRange(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n00:00:00,000 -> 00:00:01,000\nhi\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestParseNonNumericTimeField(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n00:00:xx,000 --> 00:00:01,000\nhi\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Reason, "seconds")
}

func TestParseMissingTimeLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseEmptyInput(t *testing.T) {
	track, err := Parse(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, track)
}

func TestWriteReadFile(t *testing.T) {
	path := t.TempDir() + "/out.srt"
	track := Track{{Index: 1, Start: 100, End: 900, Text: "hi"}}

	require.NoError(t, WriteFile(path, track))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, track, got)
}
