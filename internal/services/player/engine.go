package player

import (
	"sync"
	"time"

	"github.com/lingloop/player-api/internal/models"
	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// Events carries the engine's observer callbacks. Both are optional and are
// invoked with the engine lock held, so handlers must not call back into the
// engine.
type Events struct {
	// OnPosition fires on every propagated position update.
	OnPosition func(seconds float64)

	// OnSegmentChange fires when the active segment changes, by selection
	// or auto-advance.
	OnSegmentChange func(segment models.Segment, index int)
}

// State is a snapshot of the engine's observable state.
type State struct {
	ActiveSegmentID   string  `json:"activeSegmentId,omitempty"`
	ActiveIndex       int     `json:"activeIndex"`
	LoopsCompleted    int     `json:"loopsCompleted"`
	AwaitingLoopDelay bool    `json:"awaitingLoopDelay"`
	Position          float64 `json:"position"`
}

// Engine is the sentence-synchronized loop state machine. It consumes live
// position updates from the transport and segment boundaries from the loaded
// segment list, and decides on every update whether to loop, advance, stop
// or wait.
//
// Position updates, delay-timer fires and user actions arrive on separate
// goroutines; the mutex serializes them into the engine's single logical
// thread of control.
type Engine struct {
	mu        sync.Mutex
	transport Transport
	scheduler Scheduler
	events    Events

	segments *models.SegmentList
	settings models.PlaybackSettings

	activeID       string
	loopsCompleted int
	awaitingDelay  bool
	position       float64

	// delayTimer is the pending inter-loop delay, if any. timerGen guards
	// against a stale fire racing its own cancellation: every cancel bumps
	// the generation, and a fire whose captured generation no longer
	// matches is a no-op.
	delayTimer Timer
	timerGen   uint64
}

// NewEngine creates an engine driving the given transport. Settings follow
// the explicit init-from-store lifecycle: load them once, pass them here,
// push changes through ApplySettings.
func NewEngine(transport Transport, scheduler Scheduler, settings models.PlaybackSettings, events Events) *Engine {
	return &Engine{
		transport: transport,
		scheduler: scheduler,
		settings:  settings,
		events:    events,
		segments:  models.NewSegmentList(nil),
	}
}

// Load replaces the segment list the engine reads boundaries from and clears
// the active segment. The engine only ever reads segments; edits go through
// the owning project.
func (e *Engine) Load(segments *models.SegmentList) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelDelayLocked()
	e.segments = segments
	e.activeID = ""
	e.loopsCompleted = 0
	e.position = 0
}

// OnPosition feeds one transport position update into the state machine.
// Updates arriving while the inter-loop delay is pending are dropped; the
// transport is paused and the pending timer owns the next transition.
func (e *Engine) OnPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.awaitingDelay {
		return
	}

	segment, ok := e.segments.Get(e.activeID)
	if !ok {
		// No active segment to check boundaries against.
		e.transport.Pause()
		return
	}

	e.position = seconds

	if seconds < segment.EndTime {
		e.emitPosition(seconds)
		return
	}

	// Boundary crossed.
	if !e.settings.LoopBudget.Exhausted(e.loopsCompleted) {
		e.beginLoopDelayLocked(segment)
		return
	}

	// Loop budget exhausted: advance if allowed and possible, else stop
	// rewound to the segment start so it can replay cleanly.
	if e.settings.AutoPlayNext {
		if next, ok := e.segments.Next(e.activeID); ok {
			e.activateLocked(next, next.StartTime, false)
			return
		}
	}

	e.transport.Pause()
	e.transport.Seek(segment.StartTime)
	e.position = segment.StartTime
	e.loopsCompleted = 0
}

// beginLoopDelayLocked pauses the transport and schedules the seek-and-resume
// that completes one loop after the configured delay.
func (e *Engine) beginLoopDelayLocked(segment models.Segment) {
	e.transport.Pause()
	e.awaitingDelay = true

	e.timerGen++
	gen := e.timerGen
	delay := time.Duration(e.settings.LoopDelay * float64(time.Second))
	e.delayTimer = e.scheduler.AfterFunc(delay, func() {
		e.completeLoop(gen, segment)
	})
}

// completeLoop is the delay-timer body: seek back to the segment start,
// resume, and count the repeat. A fire from a canceled generation does
// nothing, which is what keeps a stale timer from seeking into a segment
// that is no longer active.
func (e *Engine) completeLoop(gen uint64, segment models.Segment) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.timerGen || !e.awaitingDelay {
		return
	}

	e.awaitingDelay = false
	e.delayTimer = nil
	e.loopsCompleted++
	e.position = segment.StartTime
	e.transport.Seek(segment.StartTime)
	e.transport.Play()
}

// Select makes the segment with the given id active, resets the loop state,
// seeks and starts playback. Any pending loop delay is canceled first.
func (e *Engine) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	segment, ok := e.segments.Get(id)
	if !ok {
		return apperrors.NotFound("segment", id)
	}

	e.cancelDelayLocked()

	// Re-selecting while the transport is already inside the new range
	// with auto-play engaged keeps the current position instead of
	// snapping to the start; seeking backwards past a boundary the
	// transport just crossed would otherwise complete a loop immediately.
	target := segment.StartTime
	if e.settings.AutoPlayNext && e.position > segment.StartTime && e.position < segment.EndTime {
		target = e.position
	}

	e.activateLocked(segment, target, true)
	return nil
}

// activateLocked switches the active segment, seeking to target and
// optionally restarting playback (auto-advance keeps the transport running).
func (e *Engine) activateLocked(segment models.Segment, target float64, play bool) {
	e.activeID = segment.ID
	e.loopsCompleted = 0
	e.position = target
	e.transport.Seek(target)
	if play {
		e.transport.Play()
	}
	if e.events.OnSegmentChange != nil {
		e.events.OnSegmentChange(segment, e.segments.IndexOf(segment.ID))
	}
}

// Next selects the segment after the active one. With no active segment it
// selects the first.
func (e *Engine) Next() error {
	return e.step(func() (models.Segment, bool) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.activeID == "" {
			return e.segments.At(0)
		}
		return e.segments.Next(e.activeID)
	})
}

// Previous selects the segment before the active one.
func (e *Engine) Previous() error {
	return e.step(func() (models.Segment, bool) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.activeID == "" {
			return e.segments.At(0)
		}
		return e.segments.Previous(e.activeID)
	})
}

func (e *Engine) step(pick func() (models.Segment, bool)) error {
	segment, ok := pick()
	if !ok {
		return apperrors.NotFound("segment", "adjacent")
	}
	return e.Select(segment.ID)
}

// ReplaceSegment swaps a single segment's text or boundaries in place,
// keeping the active selection. When the edited segment is active and the
// transport position falls outside the new range, the engine seeks back to
// the segment start. Returns false when no segment has that id or the new
// range is invalid.
func (e *Engine) ReplaceSegment(segment models.Segment) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.segments.Replace(segment) {
		return false
	}

	if e.activeID == segment.ID {
		e.cancelDelayLocked()
		if e.position < segment.StartTime || e.position >= segment.EndTime {
			e.position = segment.StartTime
			e.transport.Seek(segment.StartTime)
		}
	}
	return true
}

// ApplySettings replaces the playback settings. A pending loop delay is
// canceled before the new state applies; a rate change hits the transport
// immediately and never touches loop counters or boundaries.
func (e *Engine) ApplySettings(settings models.PlaybackSettings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings.Clamp()
	e.cancelDelayLocked()

	if settings.PlaybackRate != e.settings.PlaybackRate {
		e.transport.SetRate(settings.PlaybackRate)
	}
	e.settings = settings
}

// SetEvents replaces the observer callbacks. Session sync attaches its
// handlers after the engine is constructed.
func (e *Engine) SetEvents(events Events) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = events
}

// Settings returns the engine's current playback settings.
func (e *Engine) Settings() models.PlaybackSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Stop pauses the transport and cancels any pending loop delay, keeping the
// active segment.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelDelayLocked()
	e.transport.Pause()
}

// Snapshot returns the engine's observable state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		ActiveSegmentID:   e.activeID,
		ActiveIndex:       e.segments.IndexOf(e.activeID),
		LoopsCompleted:    e.loopsCompleted,
		AwaitingLoopDelay: e.awaitingDelay,
		Position:          e.position,
	}
}

func (e *Engine) cancelDelayLocked() {
	e.timerGen++
	if e.delayTimer != nil {
		e.delayTimer.Stop()
		e.delayTimer = nil
	}
	e.awaitingDelay = false
}

func (e *Engine) emitPosition(seconds float64) {
	if e.events.OnPosition != nil {
		e.events.OnPosition(seconds)
	}
}
