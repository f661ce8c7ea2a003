package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCues = `1
00:00:01,000 --> 00:00:05,000
Hello world

2
00:00:05,500 --> 00:00:09,250
This is a test
across two lines

3
00:00:10,000 --> 00:00:12,000
Goodbye
`

func TestParseCues(t *testing.T) {
	segments := ParseCues(sampleCues)
	require.Len(t, segments, 3)

	assert.Equal(t, "Hello world", segments[0].Text)
	assert.InDelta(t, 1.0, segments[0].StartTime, 0.0001)
	assert.InDelta(t, 5.0, segments[0].EndTime, 0.0001)

	assert.Equal(t, "This is a test across two lines", segments[1].Text, "multi-line text joined with single spaces")
	assert.InDelta(t, 5.5, segments[1].StartTime, 0.0001)
	assert.InDelta(t, 9.25, segments[1].EndTime, 0.0001)

	for _, s := range segments {
		assert.Greater(t, s.EndTime, s.StartTime)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, 1, s.LoopCount)
	}
}

func TestParseCues_SkipsMalformedBlocks(t *testing.T) {
	content := `1
not a timing line
Some orphan text

2
00:00:01,000 --> 00:00:03,000
Valid cue

garbage block without structure
`
	segments := ParseCues(content)
	require.Len(t, segments, 1)
	assert.Equal(t, "Valid cue", segments[0].Text)
}

func TestParseCues_Empty(t *testing.T) {
	assert.Empty(t, ParseCues(""))
	assert.Empty(t, ParseCues("no cues here at all"))
}

func TestParseText_Bracketed(t *testing.T) {
	content := "[1.5-3.25] First sentence\n[4-6] Second sentence\n"
	segments := ParseText(content)
	require.Len(t, segments, 2)
	assert.InDelta(t, 1.5, segments[0].StartTime, 0.0001)
	assert.InDelta(t, 3.25, segments[0].EndTime, 0.0001)
	assert.Equal(t, "First sentence", segments[0].Text)
}

func TestParseText_HeuristicChaining(t *testing.T) {
	content := "Short\nA somewhat longer sentence here\nTiny\n"
	segments := ParseText(content)
	require.Len(t, segments, 3)

	// Zero-gap chaining: each line starts where the previous ended.
	assert.InDelta(t, 0.0, segments[0].StartTime, 0.0001)
	for i := 1; i < len(segments); i++ {
		assert.InDelta(t, segments[i-1].EndTime, segments[i].StartTime, 0.0001)
	}

	// "Short" is 5 chars: 0.5s raw, clamped up to the 2s minimum.
	assert.InDelta(t, 2.0, segments[0].Duration(), 0.0001)
	// 31 chars: 3.1s, within bounds.
	assert.InDelta(t, 3.1, segments[1].Duration(), 0.0001)
}

func TestParseText_DurationClamp(t *testing.T) {
	long := strings.Repeat("x", 500)
	segments := ParseText("hi\n" + long + "\n")
	require.Len(t, segments, 2)

	assert.InDelta(t, 2.0, segments[0].Duration(), 0.0001, "short line clamped to 2s")
	assert.InDelta(t, 10.0, segments[1].Duration(), 0.0001, "long line clamped to 10s")
}

func TestParseText_MixedBracketedAndHeuristic(t *testing.T) {
	content := "[0-4] Explicit range\nImplicit line\n"
	segments := ParseText(content)
	require.Len(t, segments, 2)

	// The heuristic line chains off the bracketed line's end.
	assert.InDelta(t, 4.0, segments[1].StartTime, 0.0001)
	for _, s := range segments {
		assert.Greater(t, s.EndTime, s.StartTime)
	}
}

func TestParseText_BlankLinesIgnored(t *testing.T) {
	segments := ParseText("\n\nOnly line\n\n")
	require.Len(t, segments, 1)
	assert.Equal(t, "Only line", segments[0].Text)
}

func TestExportText(t *testing.T) {
	segments := ParseText("[1.5-3.25] Hello\n[4-6] World\n")
	out := ExportText(segments)
	assert.Equal(t, "[1.50-3.25] Hello\n[4.00-6.00] World\n", out)
}

func TestExportText_RoundTrip(t *testing.T) {
	original := ParseText("[0-2.5] One\n[2.5-5] Two\n")
	parsed := ParseText(ExportText(original))
	require.Len(t, parsed, len(original))
	for i := range original {
		assert.Equal(t, original[i].Text, parsed[i].Text)
		assert.InDelta(t, original[i].StartTime, parsed[i].StartTime, 0.01)
		assert.InDelta(t, original[i].EndTime, parsed[i].EndTime, 0.01)
	}
}
