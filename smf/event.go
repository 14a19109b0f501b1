package smf

import "fmt"

type (
	// Event is one entry of a track's event stream: a delta time in ticks
	// since the previous event of the same track, plus either a channel
	// event or a meta event. Exactly one of Channel and Meta is non-nil.
	Event struct {
		Delta   uint32
		Channel *ChannelEvent
		Meta    *MetaEvent
	}

	// ChannelKind enumerates the supported channel voice message kinds.
	ChannelKind uint8

	// ChannelEvent is a channel voice message. Every channel event carries
	// exactly two data bytes; for ProgramChange and ChannelAftertouch only
	// the first is meaningful and the second is a reserved byte that was
	// still consumed from the stream, to keep the byte accounting of the
	// decoder fixed per event.
	ChannelEvent struct {
		Kind    ChannelKind
		Channel uint8 // 0-15
		Data    [2]uint8
	}

	// MetaKind enumerates the supported meta event kinds. Meta events with
	// a type byte not covered by the enumeration decode as UnknownMeta,
	// with the raw type and payload preserved.
	MetaKind uint8

	// MetaEvent is a meta event: its kind, the raw type byte it was
	// decoded from and its payload. Data is a copy; it does not alias the
	// decoded buffer.
	MetaEvent struct {
		Kind    MetaKind
		RawType uint8
		Data    []byte
	}
)

const (
	NoteOff ChannelKind = iota
	NoteOn
	Aftertouch
	Controller
	ProgramChange
	ChannelAftertouch
	PitchBend
	NumChannelKinds
)

const (
	SequenceNumber MetaKind = iota
	Text
	Copyright
	TrackName
	InstrumentName
	Lyrics
	Marker
	CuePoint
	ChannelPrefix
	EndOfTrack
	SetTempo
	SMPTEOffset
	TimeSignature
	KeySignature
	SequencerSpecific
	UnknownMeta
	NumMetaKinds
)

var channelKindNames = [NumChannelKinds]string{
	"NoteOff", "NoteOn", "Aftertouch", "Controller", "ProgramChange",
	"ChannelAftertouch", "PitchBend",
}

func (k ChannelKind) String() string {
	if k >= NumChannelKinds {
		return fmt.Sprintf("ChannelKind(%d)", uint8(k))
	}
	return channelKindNames[k]
}

// Note returns the note number of a NoteOff, NoteOn or Aftertouch event.
func (e *ChannelEvent) Note() uint8 { return e.Data[0] }

// Velocity returns the velocity byte of a NoteOff or NoteOn event.
func (e *ChannelEvent) Velocity() uint8 { return e.Data[1] }

// Tempo returns the tempo carried by a SetTempo meta event, decoded from
// its 24-bit big-endian microseconds-per-quarter-note payload. Calling it
// on any other kind returns the zero Tempo.
func (e *MetaEvent) Tempo() Tempo {
	if e.Kind != SetTempo || len(e.Data) != 3 {
		return Tempo{}
	}
	mpqn := uint32(e.Data[0])<<16 | uint32(e.Data[1])<<8 | uint32(e.Data[2])
	return Tempo{MicrosPerQuarter: mpqn}
}

// Text returns the payload of a text-family meta event as a string.
func (e *MetaEvent) Text() string { return string(e.Data) }
