package smf_test

import (
	"testing"
	"time"

	"github.com/vsariola/soitto/smf"
)

func TestTickDurationTicksPerQuarterNote(t *testing.T) {
	d := smf.TimeDivision{Mode: smf.TicksPerQuarterNote, TicksPerQuarter: 96}
	if tick := d.TickDuration(smf.DefaultTempo()); tick != 5208333*time.Nanosecond {
		t.Errorf("tick duration %v, expected 5.208333ms", tick)
	}
	faster := smf.Tempo{MicrosPerQuarter: 250000}
	if tick := d.TickDuration(faster); tick != 2604166*time.Nanosecond {
		t.Errorf("tick duration %v, expected 2.604166ms", tick)
	}
}

func TestTickDurationSMPTE(t *testing.T) {
	d := smf.TimeDivision{Mode: smf.FramesPerSecond, Rate: smf.SMPTE25, TicksPerFrame: 40}
	// SMPTE ticks do not react to tempo at all
	for _, tempo := range []smf.Tempo{smf.DefaultTempo(), {MicrosPerQuarter: 1}} {
		if tick := d.TickDuration(tempo); tick != time.Millisecond {
			t.Errorf("tick duration %v, expected 1ms", tick)
		}
	}
	dropFrame := smf.TimeDivision{Mode: smf.FramesPerSecond, Rate: smf.SMPTE30Drop, TicksPerFrame: 100}
	if tick := dropFrame.TickDuration(smf.DefaultTempo()); tick != 333667*time.Nanosecond {
		t.Errorf("drop frame tick duration %v, expected 333.667us", tick)
	}
}

func TestTickDurationDegenerate(t *testing.T) {
	d := smf.TimeDivision{Mode: smf.TicksPerQuarterNote, TicksPerQuarter: 0}
	if tick := d.TickDuration(smf.DefaultTempo()); tick != 0 {
		t.Errorf("zero-tick division yielded %v", tick)
	}
}

func TestTempoBPM(t *testing.T) {
	if bpm := smf.DefaultTempo().BPM(); bpm != 120 {
		t.Errorf("default tempo is %v BPM, expected 120", bpm)
	}
	if bpm := (smf.Tempo{MicrosPerQuarter: 250000}).BPM(); bpm != 240 {
		t.Errorf("250000 MPQN is %v BPM, expected 240", bpm)
	}
}

func TestTimeDivisionString(t *testing.T) {
	d := smf.TimeDivision{Mode: smf.TicksPerQuarterNote, TicksPerQuarter: 96}
	if s := d.String(); s != "96 ticks per quarter note" {
		t.Errorf("String() = %q", s)
	}
	d = smf.TimeDivision{Mode: smf.FramesPerSecond, Rate: smf.SMPTE30Drop, TicksPerFrame: 4}
	if s := d.String(); s != "29.97 frames per second, 4 ticks per frame" {
		t.Errorf("String() = %q", s)
	}
}
