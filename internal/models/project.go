package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType identifies the kind of media attached to a project.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
	MediaTypeNone  MediaType = "none"
)

// Default presentation values for new projects.
const (
	DefaultSplitRatio = 70.0
	DefaultFontSize   = 16

	MinSplitRatio = 20.0
	MaxSplitRatio = 80.0
	MinFontSize   = 12
	MaxFontSize   = 32
)

// Segment is a timed span of text aligned to a portion of the media.
// Segments are value-like: edits replace the whole segment, never mutate it in
// place.
type Segment struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	LoopCount int     `json:"loopCount"`
}

// NewSegment creates a segment with a fresh id and a loop count of one.
func NewSegment(text string, start, end float64) Segment {
	return Segment{
		ID:        uuid.New().String(),
		Text:      text,
		StartTime: start,
		EndTime:   end,
		LoopCount: 1,
	}
}

// Valid reports whether the segment satisfies the time-range invariant.
func (s Segment) Valid() bool {
	return s.StartTime >= 0 && s.EndTime > s.StartTime
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Project is the unit of user work: one media track plus its sentence
// segments and presentation state. GroupID is nil for projects at the root.
type Project struct {
	ID              string    `json:"id"`
	GroupID         *string   `json:"groupId,omitempty"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"createdAt"`
	LastAccessedAt  time.Time `json:"lastAccessedAt"`
	MediaType       MediaType `json:"mediaType"`
	MediaName       string    `json:"mediaName,omitempty"`
	MediaURL        string    `json:"mediaUrl,omitempty"`
	TextURL         string    `json:"textUrl,omitempty"`
	Sentences       []Segment `json:"sentences"`
	LastActiveIndex int       `json:"lastActiveIndex"`
	SplitRatio      float64   `json:"splitRatio"`
	FontSize        int       `json:"fontSize"`
	CurrentTime     float64   `json:"currentTime"`
}

// NewProject creates a project with the documented defaults and an empty
// sentence sequence.
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:              uuid.New().String(),
		Name:            name,
		CreatedAt:       now,
		LastAccessedAt:  now,
		MediaType:       MediaTypeNone,
		Sentences:       []Segment{},
		LastActiveIndex: -1,
		SplitRatio:      DefaultSplitRatio,
		FontSize:        DefaultFontSize,
	}
}

// ClampLayout forces the presentation fields back into their allowed ranges.
func (p *Project) ClampLayout() {
	if p.SplitRatio < MinSplitRatio {
		p.SplitRatio = MinSplitRatio
	}
	if p.SplitRatio > MaxSplitRatio {
		p.SplitRatio = MaxSplitRatio
	}
	if p.FontSize < MinFontSize {
		p.FontSize = MinFontSize
	}
	if p.FontSize > MaxFontSize {
		p.FontSize = MaxFontSize
	}
}

// Group is a flat container for projects. Groups never nest; deleting a group
// moves its projects back to the root instead of deleting them.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewGroup creates a group with a fresh id.
func NewGroup(name string) *Group {
	return &Group{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
