package soitto

import "github.com/chewxy/math32"

// Note is a MIDI note number (0-127). It is a pure value type; two equal
// note numbers are the same note.
type Note uint8

const (
	a4Frequency    = 440.0
	a4Note         = 69
	notesPerOctave = 12
)

// Frequency returns the equal-temperament frequency of the note in Hz,
// with MIDI note 69 tuned to A4 = 440 Hz.
func (n Note) Frequency() float32 {
	return a4Frequency * math32.Exp2((float32(n)-a4Note)/notesPerOctave)
}
