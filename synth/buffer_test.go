package synth_test

import (
	"math"
	"testing"

	"github.com/vsariola/soitto"
	"github.com/vsariola/soitto/smf"
	"github.com/vsariola/soitto/synth"
)

// oneTickDivision is a division where one tick lasts half a second at the
// default tempo, keeping the sample arithmetic of the tests easy to
// follow.
var oneTickDivision = smf.TimeDivision{Mode: smf.TicksPerQuarterNote, TicksPerQuarter: 1}

func channelEvent(delta uint32, kind smf.ChannelKind, channel, d0, d1 uint8) smf.Event {
	return smf.Event{Delta: delta, Channel: &smf.ChannelEvent{Kind: kind, Channel: channel, Data: [2]uint8{d0, d1}}}
}

func tempoEvent(delta, mpqn uint32) smf.Event {
	return smf.Event{Delta: delta, Meta: &smf.MetaEvent{Kind: smf.SetTempo, RawType: 0x51,
		Data: []byte{byte(mpqn >> 16), byte(mpqn >> 8), byte(mpqn)}}}
}

func endOfTrackEvent(delta uint32) smf.Event {
	return smf.Event{Delta: delta, Meta: &smf.MetaEvent{Kind: smf.EndOfTrack, RawType: 0x2F}}
}

func singleTrack(events ...smf.Event) *smf.File {
	return &smf.File{Format: smf.Format0, NumTracks: 1, Division: oneTickDivision,
		Tracks: []smf.Track{{Events: events}}}
}

func TestBuffersSingleSineNote(t *testing.T) {
	file := singleTrack(
		channelEvent(0, smf.NoteOn, 0, 69, 100),
		channelEvent(2, smf.NoteOff, 0, 69, 0), // 2 ticks = 1 second
		endOfTrackEvent(0),
	)
	const rate = 100
	length, buffers := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Sine})
	if length != 100 {
		t.Fatalf("buffer length %d, expected 100", length)
	}
	if len(buffers) != 1 || len(buffers[0]) != 1 || len(buffers[0][0]) != length {
		t.Fatalf("buffer shape %d tracks, %d channels", len(buffers), len(buffers[0]))
	}
	for i, v := range buffers[0][0] {
		time := float64(float32(i) / rate)
		expected := math.Sin(2 * math.Pi * 440 * time)
		if math.Abs(float64(v)-expected) > 1e-2 {
			t.Fatalf("sample %d is %v, expected %v", i, v, expected)
		}
	}
}

func TestBuffersMeanOfActiveNotes(t *testing.T) {
	file := singleTrack(
		channelEvent(0, smf.NoteOn, 0, 69, 100),
		channelEvent(0, smf.NoteOn, 0, 81, 100),
		channelEvent(1, smf.NoteOff, 0, 69, 0),
		channelEvent(0, smf.NoteOff, 0, 81, 0),
		endOfTrackEvent(0),
	)
	const rate = 100
	length, buffers := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Sine})
	if length != 50 {
		t.Fatalf("buffer length %d, expected 50", length)
	}
	for i, v := range buffers[0][0] {
		time := float64(float32(i) / rate)
		expected := (math.Sin(2*math.Pi*440*time) + math.Sin(2*math.Pi*880*time)) / 2
		if math.Abs(float64(v)-expected) > 1e-2 {
			t.Fatalf("sample %d is %v, expected %v", i, v, expected)
		}
	}
}

func TestBuffersSilenceOutsideNotes(t *testing.T) {
	file := singleTrack(
		channelEvent(1, smf.NoteOn, 0, 69, 100), // half a second of leading silence
		channelEvent(1, smf.NoteOff, 0, 69, 0),
		endOfTrackEvent(0),
	)
	const rate = 100
	length, buffers := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Square})
	if length != 100 {
		t.Fatalf("buffer length %d, expected 100", length)
	}
	for i := 0; i < 50; i++ {
		if buffers[0][0][i] != 0 {
			t.Fatalf("sample %d is %v during leading silence", i, buffers[0][0][i])
		}
	}
	// a square wave is never zero while a note is held
	for i := 50; i < 100; i++ {
		if buffers[0][0][i] == 0 {
			t.Fatalf("sample %d is silent while the note is held", i)
		}
	}
}

func TestBuffersTempoChange(t *testing.T) {
	file := singleTrack(
		tempoEvent(1, 250000), // half a second at the default tempo, then ticks shrink to 0.25s
		channelEvent(0, smf.NoteOn, 0, 69, 100),
		channelEvent(2, smf.NoteOff, 0, 69, 0), // 2 ticks at the new tempo = half a second
		endOfTrackEvent(0),
	)
	const rate = 100
	length, buffers := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Square})
	if length != 100 {
		t.Fatalf("buffer length %d, expected 100", length)
	}
	if buffers[0][0][25] != 0 {
		t.Errorf("sample 25 is %v before the note starts", buffers[0][0][25])
	}
	if buffers[0][0][75] == 0 {
		t.Errorf("sample 75 is silent while the note is held")
	}
}

func TestBuffersChannelSeparation(t *testing.T) {
	file := singleTrack(
		channelEvent(0, smf.NoteOn, 5, 69, 100),
		channelEvent(1, smf.NoteOn, 2, 81, 100),
		channelEvent(1, smf.NoteOff, 5, 69, 0),
		channelEvent(0, smf.NoteOff, 2, 81, 0),
		endOfTrackEvent(0),
	)
	const rate = 100
	_, buffers := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Square})
	if len(buffers[0]) != 2 {
		t.Fatalf("got %d channel buffers, expected 2", len(buffers[0]))
	}
	// channel index 0 is channel 5 (first seen); it sounds during the
	// first tick, channel 2 only during the second
	if buffers[0][0][25] == 0 {
		t.Errorf("channel 5 is silent in its first tick")
	}
	if buffers[0][1][25] != 0 {
		t.Errorf("channel 2 sounds before its NoteOn: %v", buffers[0][1][25])
	}
	if buffers[0][1][75] == 0 {
		t.Errorf("channel 2 is silent while its note is held")
	}
}

func TestBuffersDegenerate(t *testing.T) {
	length, buffers := synth.Buffers(&smf.File{Division: oneTickDivision}, 44100, soitto.Waveform{Kind: soitto.Sine})
	if length != 0 || len(buffers) != 0 {
		t.Errorf("zero-track render: length %d, %d tracks", length, len(buffers))
	}
	// a track with no duration yields zero-length buffers
	length, buffers = synth.Buffers(singleTrack(endOfTrackEvent(0)), 44100, soitto.Waveform{Kind: soitto.Sine})
	if length != 0 {
		t.Errorf("zero-duration render: length %d", length)
	}
	if len(buffers) != 1 || len(buffers[0]) != 0 {
		t.Errorf("zero-duration render: %d tracks", len(buffers))
	}
}

func TestBufferLengthIsCeil(t *testing.T) {
	// one tick of 500000/3 microseconds does not divide the sample rate
	// evenly, forcing the ceil to round up
	file := &smf.File{
		Division: smf.TimeDivision{Mode: smf.TicksPerQuarterNote, TicksPerQuarter: 3},
		Tracks: []smf.Track{{Events: []smf.Event{
			channelEvent(0, smf.NoteOn, 0, 60, 90),
			channelEvent(1, smf.NoteOff, 0, 60, 0),
			endOfTrackEvent(0),
		}}},
	}
	const rate = 44100
	total := smf.TotalDuration(smf.ExtractMetadata(file))
	expected := int(math.Ceil(rate * total.Seconds()))
	length, _ := synth.Buffers(file, rate, soitto.Waveform{Kind: soitto.Sine})
	if length != expected {
		t.Errorf("buffer length %d, expected %d", length, expected)
	}
	if float64(length) < rate*total.Seconds() {
		t.Errorf("buffer length %d cannot hold %v of audio", length, total)
	}
}
