package subtitle

import (
	"regexp"
	"strings"

	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/pkg/timecode"
)

// Heuristic timing bounds for plain-text lines without an explicit range.
const (
	secondsPerChar = 0.1
	minDuration    = 2.0
	maxDuration    = 10.0
)

// cueTimingRegex matches a subtitle cue timing line, e.g.
// "00:00:01,000 --> 00:00:05,000".
var cueTimingRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,.]\d{3})`)

var sequenceNumberRegex = regexp.MustCompile(`^\d+$`)

// ParseCues scans subtitle content for repeated cue blocks (sequence number,
// timing line, text lines, blank separator) and converts each into a segment.
// Multi-line cue text is joined with single spaces. Blocks that do not match
// the cue shape are skipped, not reported.
func ParseCues(content string) []models.Segment {
	segments := []models.Segment{}

	var start, end float64
	var haveTiming bool
	var textBuilder strings.Builder

	flush := func() {
		if haveTiming && textBuilder.Len() > 0 {
			s := models.NewSegment(strings.TrimSpace(textBuilder.String()), start, end)
			if s.Valid() {
				segments = append(segments, s)
			}
		}
		haveTiming = false
		textBuilder.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		// Sequence numbers separate blocks but carry no timing.
		if sequenceNumberRegex.MatchString(line) && !haveTiming {
			continue
		}

		if matches := cueTimingRegex.FindStringSubmatch(line); matches != nil {
			flush()
			parsedStart, errStart := timecode.ParseClockTimestamp(matches[1])
			parsedEnd, errEnd := timecode.ParseClockTimestamp(matches[2])
			if errStart != nil || errEnd != nil {
				continue
			}
			start, end = parsedStart, parsedEnd
			haveTiming = true
			continue
		}

		if haveTiming {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(" ")
			}
			textBuilder.WriteString(line)
		}
	}
	flush()

	return segments
}

// ParseText converts plain text into segments, one per non-blank line. Lines
// carrying an explicit "[start-end]" range are parsed directly; every other
// line gets a synthesized range chained onto the end of the previous segment,
// with a duration proportional to its length clamped to [2s, 10s]. The result
// is strictly increasing and non-overlapping in the absence of explicit
// timing.
func ParseText(content string) []models.Segment {
	segments := []models.Segment{}
	cursor := 0.0

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if start, end, text, ok := timecode.ParseBracketedRange(line); ok {
			s := models.NewSegment(text, start, end)
			if s.Valid() {
				segments = append(segments, s)
				cursor = end
			}
			continue
		}

		duration := secondsPerChar * float64(len([]rune(line)))
		if duration < minDuration {
			duration = minDuration
		}
		if duration > maxDuration {
			duration = maxDuration
		}

		segments = append(segments, models.NewSegment(line, cursor, cursor+duration))
		cursor += duration
	}

	return segments
}

// ExportText renders segments in the plain-text export format, one
// "[start.xx-end.xx] text" line per segment.
func ExportText(segments []models.Segment) string {
	var builder strings.Builder
	for _, s := range segments {
		builder.WriteString(timecode.FormatRange(s.StartTime, s.EndTime))
		builder.WriteString(" ")
		builder.WriteString(s.Text)
		builder.WriteString("\n")
	}
	return builder.String()
}
