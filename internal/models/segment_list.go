package models

import "sort"

// SegmentList wraps a segment slice and maintains ascending StartTime order
// on every insert and edit, so next/previous navigation is both array order
// and time order even after manual time edits.
type SegmentList struct {
	segments []Segment
}

// NewSegmentList builds a list from the given segments, sorting them and
// dropping any segment that violates the time-range invariant.
func NewSegmentList(segments []Segment) *SegmentList {
	valid := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartTime < valid[j].StartTime
	})
	return &SegmentList{segments: valid}
}

// Segments returns a copy of the ordered segment slice.
func (l *SegmentList) Segments() []Segment {
	out := make([]Segment, len(l.segments))
	copy(out, l.segments)
	return out
}

// Len returns the number of segments.
func (l *SegmentList) Len() int {
	return len(l.segments)
}

// At returns the segment at the given position.
func (l *SegmentList) At(index int) (Segment, bool) {
	if index < 0 || index >= len(l.segments) {
		return Segment{}, false
	}
	return l.segments[index], true
}

// IndexOf returns the position of the segment with the given id, or -1.
func (l *SegmentList) IndexOf(id string) int {
	for i, s := range l.segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the segment with the given id.
func (l *SegmentList) Get(id string) (Segment, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l.segments[i], true
	}
	return Segment{}, false
}

// Next returns the segment after the one with the given id, if any.
func (l *SegmentList) Next(id string) (Segment, bool) {
	i := l.IndexOf(id)
	if i < 0 || i+1 >= len(l.segments) {
		return Segment{}, false
	}
	return l.segments[i+1], true
}

// Previous returns the segment before the one with the given id, if any.
func (l *SegmentList) Previous(id string) (Segment, bool) {
	i := l.IndexOf(id)
	if i <= 0 {
		return Segment{}, false
	}
	return l.segments[i-1], true
}

// Replace swaps the segment with the matching id for the given value and
// re-sorts, keeping the order invariant after time edits. Returns false when
// no segment has that id or the replacement violates the range invariant.
func (l *SegmentList) Replace(segment Segment) bool {
	if !segment.Valid() {
		return false
	}
	i := l.IndexOf(segment.ID)
	if i < 0 {
		return false
	}
	l.segments[i] = segment
	l.resort()
	return true
}

// Insert adds a segment in time order. Returns false for invalid ranges.
func (l *SegmentList) Insert(segment Segment) bool {
	if !segment.Valid() {
		return false
	}
	l.segments = append(l.segments, segment)
	l.resort()
	return true
}

// Remove deletes the segment with the given id.
func (l *SegmentList) Remove(id string) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.segments = append(l.segments[:i], l.segments[i+1:]...)
	return true
}

func (l *SegmentList) resort() {
	sort.SliceStable(l.segments, func(i, j int) bool {
		return l.segments[i].StartTime < l.segments[j].StartTime
	})
}
