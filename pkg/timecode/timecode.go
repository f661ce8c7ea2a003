package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// bracketedRangeRegex matches lines of the form "[12.5-18.25] some text".
// Start and end are decimal seconds.
var bracketedRangeRegex = regexp.MustCompile(`^\[(\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)\]\s*(.*)$`)

// Format renders a position in seconds as a human-readable timestamp with
// centisecond precision: "H:MM:SS.cc" when the position reaches an hour,
// "MM:SS.cc" otherwise.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	// Round once at centisecond precision and derive every field from the
	// rounded total, so 59.999 carries into the minute as "01:00.00".
	totalCentis := int(seconds*100 + 0.5)
	total := totalCentis / 100
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	centis := totalCentis % 100

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
	}
	return fmt.Sprintf("%02d:%02d.%02d", minutes, secs, centis)
}

// ParseClockTimestamp parses an SRT-style timestamp ("HH:MM:SS,mmm") into
// seconds. The millisecond component is divided by 1000.
func ParseClockTimestamp(timestamp string) (float64, error) {
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timestamp %s: %w", timestamp, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timestamp %s: %w", timestamp, err)
	}

	secParts := strings.SplitN(strings.Replace(parts[2], ",", ".", 1), ".", 2)
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timestamp %s: %w", timestamp, err)
	}
	millis := 0
	if len(secParts) > 1 && secParts[1] != "" {
		// Pad or trim to exactly three digits so "5" means 500ms like SRT does.
		frac := secParts[1]
		for len(frac) < 3 {
			frac += "0"
		}
		millis, err = strconv.Atoi(frac[:3])
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds in timestamp %s: %w", timestamp, err)
		}
	}

	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000, nil
}

// ParseBracketedRange parses a "[start-end] text" line. The boolean result is
// false when the line does not match the bracketed shape; callers fall back to
// heuristic timing for such lines.
func ParseBracketedRange(line string) (start, end float64, text string, ok bool) {
	matches := bracketedRangeRegex.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return 0, 0, "", false
	}

	start, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, 0, "", false
	}
	end, err = strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return 0, 0, "", false
	}

	return start, end, strings.TrimSpace(matches[3]), true
}

// FormatRange renders a segment range as a bracketed prefix for the plain-text
// export format, e.g. "[12.50-18.25]".
func FormatRange(start, end float64) string {
	return fmt.Sprintf("[%.2f-%.2f]", start, end)
}
