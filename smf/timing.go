package smf

import (
	"fmt"
	"time"
)

type (
	// Tempo is the playback tempo of a track, in microseconds per quarter
	// note (MPQN).
	Tempo struct {
		MicrosPerQuarter uint32
	}

	// DivisionMode tells how the delta-time ticks of a file relate to
	// wall-clock time.
	DivisionMode uint8

	// SMPTERate is an SMPTE frames-per-second timecode rate. The numeric
	// value is the raw code from the file; note that code 29 stands for
	// 29.97 fps drop-frame timecode.
	SMPTERate uint8

	// TimeDivision is the time-division field of the file header: either
	// ticks per quarter note (tempo-relative) or an SMPTE frame rate with
	// a number of subframe ticks per frame (absolute).
	TimeDivision struct {
		Mode            DivisionMode
		TicksPerQuarter uint16 // TicksPerQuarterNote mode; top bit always clear
		Rate            SMPTERate
		TicksPerFrame   uint8
	}
)

const (
	TicksPerQuarterNote DivisionMode = iota
	FramesPerSecond
)

const (
	SMPTE24     SMPTERate = 24
	SMPTE25     SMPTERate = 25
	SMPTE30Drop SMPTERate = 29 // 29.97 fps
	SMPTE30     SMPTERate = 30
)

const defaultMicrosPerQuarter = 500000 // 120 BPM

// DefaultTempo returns the tempo every track starts in until its first
// SetTempo event.
func DefaultTempo() Tempo {
	return Tempo{MicrosPerQuarter: defaultMicrosPerQuarter}
}

// BPM returns the tempo in beats (quarter notes) per minute.
func (t Tempo) BPM() float64 {
	if t.MicrosPerQuarter == 0 {
		return 0
	}
	return 6e7 / float64(t.MicrosPerQuarter)
}

// FramesPerSecond returns the frame rate as a number, 29.97 for the
// drop-frame code.
func (s SMPTERate) FramesPerSecond() float64 {
	if s == SMPTE30Drop {
		return 29.97
	}
	return float64(s)
}

// TickDuration returns the wall-clock duration of a single tick under the
// given tempo. In SMPTE mode the result does not depend on the tempo at
// all. A degenerate division (zero ticks) yields a zero duration rather
// than failing, so rendering never fails after a successful decode.
func (d TimeDivision) TickDuration(tempo Tempo) time.Duration {
	switch d.Mode {
	case FramesPerSecond:
		if d.TicksPerFrame == 0 {
			return 0
		}
		return time.Duration(float64(time.Second) / (d.Rate.FramesPerSecond() * float64(d.TicksPerFrame)))
	default:
		if d.TicksPerQuarter == 0 {
			return 0
		}
		return time.Duration(tempo.MicrosPerQuarter) * time.Microsecond / time.Duration(d.TicksPerQuarter)
	}
}

func (d TimeDivision) String() string {
	if d.Mode == FramesPerSecond {
		return fmt.Sprintf("%g frames per second, %d ticks per frame", d.Rate.FramesPerSecond(), d.TicksPerFrame)
	}
	return fmt.Sprintf("%d ticks per quarter note", d.TicksPerQuarter)
}
