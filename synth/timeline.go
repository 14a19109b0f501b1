// Package synth renders a decoded Standard MIDI File either into PCM
// sample buffers or into a list of timed oscillator/envelope scheduling
// descriptors. Both renderers are pure functions of their inputs: they
// share no state across calls and always run to completion.
package synth

import (
	"time"

	"github.com/vsariola/soitto/smf"
)

// timeline is the tempo bookkeeping shared by both renderers, so that
// tempo-change handling cannot diverge between them. It walks one track's
// event stream: the clock starts at zero with the default tempo, and
// reacts only to the SetTempo events of that same track. Tempo never
// carries over between tracks; each track walk starts over from the
// default.
type timeline struct {
	division smf.TimeDivision
	tick     time.Duration
	now      time.Duration
}

func newTimeline(division smf.TimeDivision) timeline {
	return timeline{division: division, tick: division.TickDuration(smf.DefaultTempo())}
}

// advance moves the clock forward by delta ticks at the tempo in effect
// before the event carrying the delta is applied.
func (t *timeline) advance(delta uint32) {
	t.now += t.tick * time.Duration(delta)
}

// tickSeconds returns the current duration of one tick in seconds, for
// renderers that count samples instead of wall-clock time.
func (t *timeline) tickSeconds() float64 {
	return t.tick.Seconds()
}

// apply applies the state effects of a meta event; it returns false when
// the event ends the track.
func (t *timeline) apply(ev *smf.Event) bool {
	if ev.Meta == nil {
		return true
	}
	switch ev.Meta.Kind {
	case smf.EndOfTrack:
		return false
	case smf.SetTempo:
		t.tick = t.division.TickDuration(ev.Meta.Tempo())
	}
	return true
}
