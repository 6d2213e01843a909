// Package progress defines the phase events emitted by a catalog run and the
// observer interface front ends use to display them. Percent values are
// mapped into fixed per-phase bands so a progress bar moves smoothly across
// phases of very different durations.
package progress

import "time"

// Phase denotes the lifecycle stage represented by an Event.
type Phase string

// Run phases, in execution order.
const (
	PhaseInit    Phase = "INIT"
	PhaseLabels  Phase = "LABELS"
	PhaseListing Phase = "LISTING"
	PhaseAlbums  Phase = "ALBUMS"
	PhaseWriting Phase = "WRITING"
	PhaseDone    Phase = "DONE"
	PhaseError   Phase = "ERROR"
)

// Event is a single progress update.
type Event struct {
	// Phase denotes which run stage the event belongs to.
	Phase Phase
	// Message is a short human-readable description of the step.
	Message string
	// Current and Total describe intra-phase position (0/0 when unknown).
	Current int
	Total   int
	// Percent is the whole-run completion estimate, 0 to 100.
	Percent float64
	// TS is the UTC timestamp recorded by the tracker.
	TS time.Time
}

// Observer consumes progress events. Implementations must be cheap; the
// tracker invokes them inline on the emitting goroutine.
type Observer interface {
	OnProgress(evt Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(evt Event)

// OnProgress calls f.
func (f ObserverFunc) OnProgress(evt Event) { f(evt) }

// Nop returns an Observer that discards every event.
func Nop() Observer { return ObserverFunc(func(Event) {}) }
