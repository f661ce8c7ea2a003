package player

import "time"

// Transport is the media element the engine drives. The real transport lives
// in the client; the API layer hands the engine a recorder whose directives
// are shipped back in the response to each position update.
type Transport interface {
	// Play resumes playback.
	Play()

	// Pause halts playback without losing position.
	Pause()

	// Seek moves the playhead to the given content time in seconds.
	Seek(seconds float64)

	// SetRate changes the playback rate. Boundaries are defined in content
	// time, so rate changes never touch loop logic.
	SetRate(rate float64)
}

// Timer is a cancelable one-shot timer.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// timer from firing.
	Stop() bool
}

// Scheduler produces cancelable one-shot timers for the inter-loop delay.
// The engine never uses a bare callback timer: every pending delay is tied to
// engine state so a segment or settings change can cancel it atomically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewScheduler returns a Scheduler backed by the runtime timer.
func NewScheduler() Scheduler {
	return realScheduler{}
}
