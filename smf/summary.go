package smf

type (
	// Summary is a compact, marshal-friendly description of a decoded
	// file, for reporting and command line dumps.
	Summary struct {
		Format   int            `yaml:"format"`
		Division string         `yaml:"division"`
		Duration float64        `yaml:"duration"`
		Tracks   []TrackSummary `yaml:"tracks"`
	}

	TrackSummary struct {
		Events   int     `yaml:"events"`
		Channels []uint8 `yaml:"channels,flow"`
		Duration float64 `yaml:"duration"`
	}
)

// Summarize derives a Summary from a decoded file. Durations are reported
// in seconds.
func Summarize(f *File) Summary {
	meta := ExtractMetadata(f)
	ret := Summary{
		Format:   int(f.Format),
		Division: f.Division.String(),
		Duration: TotalDuration(meta).Seconds(),
		Tracks:   make([]TrackSummary, 0, len(f.Tracks)),
	}
	for i, track := range f.Tracks {
		ret.Tracks = append(ret.Tracks, TrackSummary{
			Events:   len(track.Events),
			Channels: meta[i].Channels,
			Duration: meta[i].Duration.Seconds(),
		})
	}
	return ret
}
