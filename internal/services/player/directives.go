package player

import "sync"

// Directive types issued to the client-side media element.
const (
	DirectivePlay    = "play"
	DirectivePause   = "pause"
	DirectiveSeek    = "seek"
	DirectiveSetRate = "setRate"
)

// Directive is one transport command for the client to execute, in order.
type Directive struct {
	Type    string  `json:"type"`
	Seconds float64 `json:"seconds,omitempty"`
	Rate    float64 `json:"rate,omitempty"`
}

// DirectiveBuffer implements Transport by accumulating directives until the
// client's next exchange drains them. The real media element lives in the
// client; this is its server-side stand-in.
type DirectiveBuffer struct {
	mu    sync.Mutex
	items []Directive
}

// NewDirectiveBuffer creates an empty buffer.
func NewDirectiveBuffer() *DirectiveBuffer {
	return &DirectiveBuffer{}
}

func (b *DirectiveBuffer) append(d Directive) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

// Play implements Transport.
func (b *DirectiveBuffer) Play() {
	b.append(Directive{Type: DirectivePlay})
}

// Pause implements Transport.
func (b *DirectiveBuffer) Pause() {
	b.append(Directive{Type: DirectivePause})
}

// Seek implements Transport.
func (b *DirectiveBuffer) Seek(seconds float64) {
	b.append(Directive{Type: DirectiveSeek, Seconds: seconds})
}

// SetRate implements Transport.
func (b *DirectiveBuffer) SetRate(rate float64) {
	b.append(Directive{Type: DirectiveSetRate, Rate: rate})
}

// Drain returns the accumulated directives and clears the buffer.
func (b *DirectiveBuffer) Drain() []Directive {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items
	b.items = nil
	if items == nil {
		items = []Directive{}
	}
	return items
}
