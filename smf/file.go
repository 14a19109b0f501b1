package smf

import (
	"errors"
	"fmt"
)

// Sentinel errors of the decoder. Every decode failure wraps one of these
// in a DecodeError carrying the byte offset where it was detected.
var (
	ErrHeaderMagic       = errors.New("header chunk magic mismatch")
	ErrHeaderLength      = errors.New("header chunk length mismatch")
	ErrUnsupportedFormat = errors.New("unsupported format type")
	ErrInvalidSMPTERate  = errors.New("invalid SMPTE frame rate code")
	ErrSysExUnsupported  = errors.New("SysEx events are not supported")
	ErrMetaLength        = errors.New("meta event length mismatch")
	ErrTrackMagic        = errors.New("track chunk magic mismatch")
	ErrMissingEndOfTrack = errors.New("track chunk ended without EndOfTrack")
	ErrEventType         = errors.New("invalid channel event type")
)

type (
	// Format is the format type from the file header. Only single-track
	// (merged) and multi-track (simultaneous) files are supported;
	// sequential multi-song type 2 files are rejected.
	Format uint16

	// File is a whole decoded Standard MIDI File. It is created once per
	// Decode call and read-only thereafter; the renderers derive all their
	// artifacts from it without mutating it.
	File struct {
		Format    Format
		NumTracks uint16
		Division  TimeDivision
		Tracks    []Track
	}

	// Track is the ordered event stream of one MTrk chunk. Its last event
	// is always EndOfTrack.
	Track struct {
		Events []Event
	}
)

const (
	Format0 Format = 0 // single track, all channels merged
	Format1 Format = 1 // multiple simultaneous tracks
)

const (
	headerMagic  = "MThd"
	trackMagic   = "MTrk"
	headerLength = 6
)

// metaFixedLengths lists the meta kinds whose payload length is mandated
// by the format; any other length for these is a hard error.
var metaFixedLengths = map[MetaKind]int{
	SequenceNumber: 2,
	ChannelPrefix:  1,
	EndOfTrack:     0,
	SetTempo:       3,
	SMPTEOffset:    5,
}

// Decode parses a complete Standard MIDI File from data. It returns
// either the whole decoded File or an error; never a partial result.
// Malformed input is a hard failure, with the error identifying the
// offending byte offset.
func Decode(data []byte) (*File, error) {
	r := &reader{buf: data}
	magic, err := r.readRange(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != headerMagic {
		return nil, decodeErrorf(0, ErrHeaderMagic, "got %q", magic)
	}
	length, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if length != headerLength {
		return nil, decodeErrorf(4, ErrHeaderLength, "got %d", length)
	}
	format, err := r.readU16()
	if err != nil {
		return nil, err
	}
	if format != uint16(Format0) && format != uint16(Format1) {
		return nil, decodeErrorf(8, ErrUnsupportedFormat, "got %d", format)
	}
	numTracks, err := r.readU16()
	if err != nil {
		return nil, err
	}
	rawDivision, err := r.readU16()
	if err != nil {
		return nil, err
	}
	division, err := parseTimeDivision(rawDivision)
	if err != nil {
		return nil, err
	}
	f := &File{
		Format:    Format(format),
		NumTracks: numTracks,
		Division:  division,
		Tracks:    make([]Track, 0, numTracks),
	}
	for i := 0; i < int(numTracks); i++ {
		track, err := decodeTrack(r)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		f.Tracks = append(f.Tracks, track)
	}
	return f, nil
}

func parseTimeDivision(raw uint16) (TimeDivision, error) {
	if raw&0x8000 == 0 {
		return TimeDivision{Mode: TicksPerQuarterNote, TicksPerQuarter: raw & 0x7fff}, nil
	}
	rate := SMPTERate(raw & 0x7f00 >> 8)
	switch rate {
	case SMPTE24, SMPTE25, SMPTE30Drop, SMPTE30:
	default:
		return TimeDivision{}, decodeErrorf(12, ErrInvalidSMPTERate, "got %d", rate)
	}
	return TimeDivision{Mode: FramesPerSecond, Rate: rate, TicksPerFrame: uint8(raw)}, nil
}

func decodeTrack(r *reader) (Track, error) {
	magicOffset := r.offset()
	magic, err := r.readRange(4)
	if err != nil {
		return Track{}, err
	}
	if string(magic) != trackMagic {
		return Track{}, decodeErrorf(magicOffset, ErrTrackMagic, "got %q", magic)
	}
	length, err := r.readU32()
	if err != nil {
		return Track{}, err
	}
	chunk, err := r.readRange(int(length))
	if err != nil {
		return Track{}, err
	}
	// events are parsed from a sub-cursor scoped to exactly this chunk, so
	// an event stream cannot read into the next chunk
	sub := &reader{buf: chunk, base: r.offset() - int(length)}
	events, err := decodeEvents(sub)
	if err != nil {
		return Track{}, err
	}
	return Track{Events: events}, nil
}

func decodeEvents(r *reader) ([]Event, error) {
	var events []Event
	for {
		if r.remaining() == 0 {
			return nil, decodeErrorf(r.offset(), ErrMissingEndOfTrack, "%d events decoded", len(events))
		}
		delta, err := r.readVarLen()
		if err != nil {
			return nil, err
		}
		statusOffset := r.offset()
		status, err := r.readU8()
		if err != nil {
			return nil, err
		}
		switch {
		case status == 0xff:
			meta, err := decodeMeta(r)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{Delta: delta, Meta: meta})
			if meta.Kind == EndOfTrack {
				return events, nil
			}
		case status >= 0xf0:
			if status == 0xf0 || status == 0xf7 {
				return nil, decodeErrorf(statusOffset, ErrSysExUnsupported, "status 0x%02X", status)
			}
			return nil, decodeErrorf(statusOffset, ErrEventType, "status 0x%02X", status)
		case status >= 0x80:
			// every channel event consumes exactly two data bytes; kinds
			// that use only one keep the second as a reserved byte
			d0, err := r.readU8()
			if err != nil {
				return nil, err
			}
			d1, err := r.readU8()
			if err != nil {
				return nil, err
			}
			events = append(events, Event{Delta: delta, Channel: &ChannelEvent{
				Kind:    ChannelKind(status>>4 - 8),
				Channel: status & 0x0f,
				Data:    [2]uint8{d0, d1},
			}})
		default:
			// a data byte in status position; running status is not part
			// of this decoder
			return nil, decodeErrorf(statusOffset, ErrEventType, "status 0x%02X", status)
		}
	}
}

func decodeMeta(r *reader) (*MetaEvent, error) {
	typeOffset := r.offset()
	typ, err := r.readU8()
	if err != nil {
		return nil, err
	}
	length, err := r.readVarLen()
	if err != nil {
		return nil, err
	}
	payload, err := r.readRange(int(length))
	if err != nil {
		return nil, err
	}
	kind := metaKindForType(typ)
	if want, ok := metaFixedLengths[kind]; ok && int(length) != want {
		return nil, decodeErrorf(typeOffset, ErrMetaLength, "meta type 0x%02X wants %d payload bytes, got %d", typ, want, length)
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	return &MetaEvent{Kind: kind, RawType: typ, Data: data}, nil
}

func metaKindForType(typ uint8) MetaKind {
	switch typ {
	case 0x00:
		return SequenceNumber
	case 0x01:
		return Text
	case 0x02:
		return Copyright
	case 0x03:
		return TrackName
	case 0x04:
		return InstrumentName
	case 0x05:
		return Lyrics
	case 0x06:
		return Marker
	case 0x07:
		return CuePoint
	case 0x20:
		return ChannelPrefix
	case 0x2f:
		return EndOfTrack
	case 0x51:
		return SetTempo
	case 0x54:
		return SMPTEOffset
	case 0x58:
		return TimeSignature
	case 0x59:
		return KeySignature
	case 0x7f:
		return SequencerSpecific
	}
	return UnknownMeta
}
