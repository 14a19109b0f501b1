package smf

import "time"

// TrackMetadata is derived, per-track information computed in a single
// forward pass: the distinct channels seen on channel events, densely
// indexed in order of first appearance, and the total duration of the
// track. It is recomputed from the File on request, never mutated in
// place.
type TrackMetadata struct {
	Channels []uint8
	Duration time.Duration
}

// ChannelIndex returns the dense index of the given channel number within
// this track, or false if the track has no events on that channel.
func (m *TrackMetadata) ChannelIndex(channel uint8) (int, bool) {
	for i, ch := range m.Channels {
		if ch == channel {
			return i, true
		}
	}
	return 0, false
}

// ExtractMetadata computes the metadata of every track of the file. Each
// track is scanned with its own running tempo, starting from the default
// and updated by the SetTempo events of that track alone; the delta time
// of an event always accumulates at the tempo in effect before the event
// is applied.
func ExtractMetadata(f *File) []TrackMetadata {
	ret := make([]TrackMetadata, 0, len(f.Tracks))
	for _, track := range f.Tracks {
		tick := f.Division.TickDuration(DefaultTempo())
		var meta TrackMetadata
		for _, ev := range track.Events {
			meta.Duration += tick * time.Duration(ev.Delta)
			if ev.Channel != nil {
				if _, ok := meta.ChannelIndex(ev.Channel.Channel); !ok {
					meta.Channels = append(meta.Channels, ev.Channel.Channel)
				}
				continue
			}
			if ev.Meta.Kind == EndOfTrack {
				break
			}
			if ev.Meta.Kind == SetTempo {
				tick = f.Division.TickDuration(ev.Meta.Tempo())
			}
		}
		ret = append(ret, meta)
	}
	return ret
}

// TotalDuration returns the duration of the whole piece: the maximum of
// the per-track durations, zero when there are no tracks.
func TotalDuration(meta []TrackMetadata) time.Duration {
	var ret time.Duration
	for _, m := range meta {
		if m.Duration > ret {
			ret = m.Duration
		}
	}
	return ret
}
