package models

import (
	"encoding/json"
	"fmt"
)

// Playback rate bounds accepted from user controls.
const (
	MinPlaybackRate = 0.5
	MaxPlaybackRate = 3.0
)

// loopBudgetUnbounded is the wire sentinel for an unlimited loop budget. It
// only exists at the JSON boundary; in-process code uses the LoopBudget type.
const loopBudgetUnbounded = -1

// LoopBudget is the number of consecutive plays of a segment before the
// engine decides to advance or stop. It is either a finite count (>= 1) or
// unbounded.
type LoopBudget struct {
	count     int
	unbounded bool
}

// FiniteLoops returns a budget of n plays. Counts below one are clamped to
// one.
func FiniteLoops(n int) LoopBudget {
	if n < 1 {
		n = 1
	}
	return LoopBudget{count: n}
}

// UnboundedLoops returns a budget that never exhausts.
func UnboundedLoops() LoopBudget {
	return LoopBudget{unbounded: true}
}

// Unbounded reports whether the budget never exhausts.
func (b LoopBudget) Unbounded() bool {
	return b.unbounded
}

// Count returns the finite play count and whether the budget is finite.
func (b LoopBudget) Count() (int, bool) {
	if b.unbounded {
		return 0, false
	}
	return b.count, true
}

// Exhausted reports whether completed loop repeats have used up the budget.
// A budget of n plays allows n-1 repeats after the first play.
func (b LoopBudget) Exhausted(loopsCompleted int) bool {
	if b.unbounded {
		return false
	}
	return loopsCompleted >= b.count-1
}

func (b LoopBudget) String() string {
	if b.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", b.count)
}

// MarshalJSON writes the collection-format wire value: the finite count, or
// -1 for unbounded.
func (b LoopBudget) MarshalJSON() ([]byte, error) {
	if b.unbounded {
		return json.Marshal(loopBudgetUnbounded)
	}
	return json.Marshal(b.count)
}

// UnmarshalJSON reads the wire value, mapping -1 (or anything below one) that
// is exactly the sentinel to unbounded and clamping other low values to one.
func (b *LoopBudget) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n == loopBudgetUnbounded {
		*b = UnboundedLoops()
		return nil
	}
	*b = FiniteLoops(n)
	return nil
}

// PlaybackSettings is the process-wide playback configuration. It is loaded
// once at engine start, mutated by user controls and persisted on every
// change.
type PlaybackSettings struct {
	LoopBudget   LoopBudget `json:"loopCount"`
	LoopDelay    float64    `json:"loopDelay"`
	PlaybackRate float64    `json:"playbackRate"`
	AutoPlayNext bool       `json:"autoPlayNext"`
}

// DefaultPlaybackSettings returns the settings used before any user change
// has been persisted.
func DefaultPlaybackSettings() PlaybackSettings {
	return PlaybackSettings{
		LoopBudget:   FiniteLoops(3),
		LoopDelay:    1.0,
		PlaybackRate: 1.0,
		AutoPlayNext: true,
	}
}

// Clamp forces the settings back into their allowed ranges. A zero-value
// budget, as produced by a JSON body that omits loopCount, becomes a single
// play rather than one that exhausts on the first boundary crossing.
func (s *PlaybackSettings) Clamp() {
	if finite, ok := s.LoopBudget.Count(); ok && finite < 1 {
		s.LoopBudget = FiniteLoops(finite)
	}
	if s.PlaybackRate < MinPlaybackRate {
		s.PlaybackRate = MinPlaybackRate
	}
	if s.PlaybackRate > MaxPlaybackRate {
		s.PlaybackRate = MaxPlaybackRate
	}
	if s.LoopDelay < 0 {
		s.LoopDelay = 0
	}
}
