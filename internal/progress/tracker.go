package progress

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Per-phase percent bands. Each phase fills its own slice of the bar; the
// tracker interpolates Current/Total inside the band.
var phaseBands = map[Phase][2]float64{
	PhaseInit:    {0, 5},
	PhaseLabels:  {0, 5},
	PhaseListing: {5, 40},
	PhaseAlbums:  {40, 90},
	PhaseWriting: {90, 100},
	PhaseDone:    {100, 100},
	PhaseError:   {0, 100},
}

// Tracker translates phase steps into monotonic percent events. It is safe
// for concurrent use; the listing and album phases report from separate
// goroutines.
type Tracker struct {
	mu       sync.Mutex
	observer Observer
	last     float64
	now      func() time.Time
}

// NewTracker wires an observer; a nil observer discards events.
func NewTracker(observer Observer) *Tracker {
	if observer == nil {
		observer = Nop()
	}
	return &Tracker{observer: observer, now: time.Now}
}

// Step reports intra-phase position. Percent never decreases, so a slow
// phase ahead of an already-reported one cannot move the bar backwards.
func (t *Tracker) Step(phase Phase, message string, current, total int) {
	band, ok := phaseBands[phase]
	if !ok {
		return
	}
	pct := band[0]
	if total > 0 {
		frac := float64(current) / float64(total)
		if frac > 1 {
			frac = 1
		}
		pct = band[0] + frac*(band[1]-band[0])
	} else if phase == PhaseDone {
		pct = band[1]
	}

	t.mu.Lock()
	if pct < t.last {
		pct = t.last
	}
	t.last = pct
	evt := Event{
		Phase:   phase,
		Message: message,
		Current: current,
		Total:   total,
		Percent: pct,
		TS:      t.now().UTC(),
	}
	t.mu.Unlock()

	t.observer.OnProgress(evt)
}

// Done marks the run complete at 100 percent.
func (t *Tracker) Done(message string) {
	t.Step(PhaseDone, message, 1, 1)
}

// Fail reports a fatal error without advancing the percent.
func (t *Tracker) Fail(message string) {
	t.mu.Lock()
	evt := Event{
		Phase:   PhaseError,
		Message: message,
		Percent: t.last,
		TS:      t.now().UTC(),
	}
	t.mu.Unlock()

	t.observer.OnProgress(evt)
}

// LogObserver emits structured logs for each event. It is the default
// observer for CLI runs where no interactive display is attached.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver wires a Zap logger to the Observer interface.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

// OnProgress logs the event using structured fields.
func (o *LogObserver) OnProgress(evt Event) {
	o.logger.Info("progress",
		zap.String("phase", string(evt.Phase)),
		zap.String("message", evt.Message),
		zap.Int("current", evt.Current),
		zap.Int("total", evt.Total),
		zap.Float64("percent", evt.Percent),
	)
}
