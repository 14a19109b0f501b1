package soitto

import (
	"fmt"

	"github.com/viterin/vek/vek32"
)

type (
	// AudioBuffer is a rendered stretch of audio: interleaved float32
	// samples in [-1, 1] at a given sample rate and channel count. Buffers
	// returned by the renderers are exclusively owned by the caller.
	AudioBuffer struct {
		Samples     []float32
		SampleRate  int
		NumChannels int
	}

	// AudioSink is something where we can send audio e.g. audio output or
	// a file.
	AudioSink interface {
		WriteAudio(buffer []float32) error
		Close() error
	}

	// AudioContext represents the platform audio output device.
	AudioContext interface {
		Output() AudioSink
		Close() error
	}
)

// Mixdown averages a set of equal-length per-track, per-channel sample
// buffers, as produced by synth.Buffers, into a single mono AudioBuffer.
// An empty buffer set yields an empty AudioBuffer.
func Mixdown(buffers [][][]float32, length, sampleRate int) *AudioBuffer {
	ret := &AudioBuffer{
		Samples:     make([]float32, length),
		SampleRate:  sampleRate,
		NumChannels: 1,
	}
	count := 0
	for _, track := range buffers {
		for _, channel := range track {
			vek32.Add_Inplace(ret.Samples, channel)
			count++
		}
	}
	if count > 1 {
		vek32.DivNumber_Inplace(ret.Samples, float32(count))
	}
	return ret
}

// Duration returns the length of the buffer in seconds.
func (b *AudioBuffer) Duration() float64 {
	if b.SampleRate == 0 || b.NumChannels == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate) / float64(b.NumChannels)
}

// Play writes the whole buffer to the output of the given AudioContext and
// closes the sink, returning only after the sink has accepted all of it.
func (b *AudioBuffer) Play(ctx AudioContext) error {
	sink := ctx.Output()
	if err := sink.WriteAudio(b.Samples); err != nil {
		sink.Close()
		return fmt.Errorf("AudioBuffer.Play failed: %w", err)
	}
	return sink.Close()
}
