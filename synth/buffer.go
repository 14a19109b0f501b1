package synth

import (
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/soitto"
	"github.com/vsariola/soitto/smf"
)

// Buffers replays the file's events into precomputed PCM buffers, one per
// (track, channel) pair: buffers[track][channelIndex] is a []float32 of
// exactly bufferLength samples in [-1, 1], where channelIndex is the dense
// per-track channel index of smf.TrackMetadata. bufferLength is
// ceil(sampleRate * total duration), the same for every buffer. Sample
// ranges where a channel holds active notes are filled with the arithmetic
// mean of the waveform values of those notes; everything else is silence.
// Buffers never fails: a file with no tracks or no duration yields length
// zero.
func Buffers(f *smf.File, sampleRate int, wave soitto.Waveform) (int, [][][]float32) {
	meta := smf.ExtractMetadata(f)
	total := smf.TotalDuration(meta)
	length := int(math.Ceil(float64(sampleRate) * total.Seconds()))
	buffers := make([][][]float32, len(f.Tracks))
	for i := range buffers {
		buffers[i] = make([][]float32, len(meta[i].Channels))
		for j := range buffers[i] {
			buffers[i][j] = make([]float32, length)
		}
	}
	for ti := range f.Tracks {
		renderTrack(f, meta, ti, sampleRate, wave, buffers[ti])
	}
	return length, buffers
}

// renderTrack fills the buffers of one track. The active-note sets are
// scratch state owned by this single pass, so concurrent or repeated
// renders of the same file cannot observe each other.
func renderTrack(f *smf.File, meta []smf.TrackMetadata, ti, sampleRate int, wave soitto.Waveform, out [][]float32) {
	tl := newTimeline(f.Division)
	active := make([]map[soitto.Note]struct{}, len(meta[ti].Channels))
	cursor := 0
	for evi := range f.Tracks[ti].Events {
		ev := &f.Tracks[ti].Events[evi]
		samplesPerTick := tl.tickSeconds() * float64(sampleRate)
		end := cursor + int(math.Round(float64(ev.Delta)*samplesPerTick))
		if len(out) > 0 && end > len(out[0]) {
			end = len(out[0]) // rounding may overshoot the ceil'd total
		}
		for ci, notes := range active {
			if len(notes) > 0 {
				fillRange(out[ci][cursor:end], cursor, sampleRate, wave, notes)
			}
		}
		cursor = end
		if ev.Channel != nil {
			ci, ok := meta[ti].ChannelIndex(ev.Channel.Channel)
			if !ok {
				continue
			}
			switch ev.Channel.Kind {
			case smf.NoteOn:
				if active[ci] == nil {
					active[ci] = make(map[soitto.Note]struct{})
				}
				active[ci][soitto.Note(ev.Channel.Note())] = struct{}{}
			case smf.NoteOff:
				delete(active[ci], soitto.Note(ev.Channel.Note()))
			}
			continue
		}
		if !tl.apply(ev) {
			break
		}
	}
}

// fillRange accumulates every active note's waveform value at each
// sample's absolute time and divides by the note count for the mean.
func fillRange(dst []float32, start, sampleRate int, wave soitto.Waveform, notes map[soitto.Note]struct{}) {
	for note := range notes {
		freq := note.Frequency()
		for i := range dst {
			dst[i] += wave.Value(freq, float32(start+i)/float32(sampleRate))
		}
	}
	if len(notes) > 1 {
		vek32.DivNumber_Inplace(dst, float32(len(notes)))
	}
}
