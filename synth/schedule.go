package synth

import (
	"time"

	"github.com/vsariola/soitto"
	"github.com/vsariola/soitto/smf"
)

type (
	// NoteSpec tells an external oscillator/envelope graph how to play one
	// completed note: an oscillator at Frequency running from Start to
	// Stop, with a gain envelope ramping from zero to PeakGain over Attack
	// and back to zero over the final Release.
	NoteSpec struct {
		Frequency float32
		Start     time.Duration
		Stop      time.Duration
		PeakGain  float32
		Attack    time.Duration
		Release   time.Duration
	}

	// Program is the scheduled rendering of a file: the periodic-wave
	// coefficients shared by every note, plus the note descriptors in the
	// order their NoteOffs were encountered, track by track.
	Program struct {
		Real, Imag []float32
		Notes      []NoteSpec
	}

	noteKey struct {
		channel uint8
		note    soitto.Note
	}

	// playedNote exists only between a NoteOn and its matching NoteOff.
	playedNote struct {
		start      time.Duration
		onVelocity uint8
	}
)

const (
	maxAttack  = 100 * time.Millisecond
	maxRelease = 2000 * time.Millisecond
)

// Schedule replays the file's events into note scheduling descriptors,
// one per completed NoteOn/NoteOff pair per (channel, note). A NoteOn
// overwrites any unmatched earlier NoteOn for the same key; an orphan
// NoteOff is a no-op; notes never closed by a NoteOff before EndOfTrack
// are discarded unscheduled. Like Buffers, Schedule never fails: a file
// with no tracks yields an empty note list.
func Schedule(f *smf.File, wave soitto.Waveform) Program {
	real, imag := wave.Decompose()
	prog := Program{Real: real, Imag: imag}
	for ti := range f.Tracks {
		tl := newTimeline(f.Division)
		played := make(map[noteKey]playedNote)
		for evi := range f.Tracks[ti].Events {
			ev := &f.Tracks[ti].Events[evi]
			tl.advance(ev.Delta)
			if ev.Channel != nil {
				key := noteKey{ev.Channel.Channel, soitto.Note(ev.Channel.Note())}
				switch ev.Channel.Kind {
				case smf.NoteOn:
					played[key] = playedNote{start: tl.now, onVelocity: ev.Channel.Velocity()}
				case smf.NoteOff:
					if on, ok := played[key]; ok {
						delete(played, key)
						prog.Notes = append(prog.Notes, noteSpec(key.note, on, ev.Channel.Velocity(), tl.now))
					}
				}
				continue
			}
			if !tl.apply(ev) {
				break
			}
		}
	}
	return prog
}

// noteSpec computes the envelope of one completed note. Harder on
// velocities give louder peaks and shorter attacks; harder off velocities
// give shorter releases. Attack and release are additionally capped to a
// third and a half of the note duration, so a zero-length note gets a
// zero-length envelope.
func noteSpec(note soitto.Note, on playedNote, offVelocity uint8, stop time.Duration) NoteSpec {
	duration := stop - on.start
	peak := float32(on.onVelocity) / 127
	attack := time.Duration(float64(maxAttack) * (1 - float64(peak)))
	if limit := duration / 3; attack > limit {
		attack = limit
	}
	releaseFrac := float64(offVelocity) / 127
	release := time.Duration(float64(maxRelease) * (1 - releaseFrac))
	if limit := duration / 2; release > limit {
		release = limit
	}
	return NoteSpec{
		Frequency: note.Frequency(),
		Start:     on.start,
		Stop:      stop,
		PeakGain:  peak,
		Attack:    attack,
		Release:   release,
	}
}
