package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureObserver) OnProgress(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *captureObserver) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestTrackerMapsPhasesIntoBands(t *testing.T) {
	sink := &captureObserver{}
	tr := NewTracker(sink)

	tr.Step(PhaseInit, "config loaded", 0, 0)
	tr.Step(PhaseListing, "label 1/4", 1, 4)
	tr.Step(PhaseListing, "label 4/4", 4, 4)
	tr.Step(PhaseAlbums, "album 5/10", 5, 10)
	tr.Step(PhaseWriting, "spreadsheet", 1, 2)
	tr.Done("finished")

	events := sink.all()
	require.Len(t, events, 6)
	assert.Equal(t, 0.0, events[0].Percent)
	assert.InDelta(t, 13.75, events[1].Percent, 0.01)
	assert.Equal(t, 40.0, events[2].Percent)
	assert.Equal(t, 65.0, events[3].Percent)
	assert.Equal(t, 95.0, events[4].Percent)
	assert.Equal(t, 100.0, events[5].Percent)
	assert.Equal(t, PhaseDone, events[5].Phase)
}

func TestTrackerPercentNeverDecreases(t *testing.T) {
	sink := &captureObserver{}
	tr := NewTracker(sink)

	tr.Step(PhaseAlbums, "album 8/10", 8, 10)
	tr.Step(PhaseListing, "late listing report", 2, 4)

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, 80.0, events[0].Percent)
	assert.Equal(t, 80.0, events[1].Percent)
}

func TestTrackerFailKeepsLastPercent(t *testing.T) {
	sink := &captureObserver{}
	tr := NewTracker(sink)

	tr.Step(PhaseListing, "label 2/4", 2, 4)
	tr.Fail("fetch budget exhausted")

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, PhaseError, events[1].Phase)
	assert.Equal(t, events[0].Percent, events[1].Percent)
}

func TestTrackerOverflowClampsToBandCeiling(t *testing.T) {
	sink := &captureObserver{}
	tr := NewTracker(sink)

	tr.Step(PhaseListing, "extra page", 9, 4)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, 40.0, events[0].Percent)
}

func TestNilObserverIsSafe(t *testing.T) {
	tr := NewTracker(nil)
	assert.NotPanics(t, func() {
		tr.Step(PhaseInit, "boot", 0, 0)
		tr.Done("")
	})
}
