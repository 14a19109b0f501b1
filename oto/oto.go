// Package oto implements the soitto audio interfaces on top of the oto
// library, playing rendered buffers through the platform audio device.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/soitto"
)

type (
	// Context wraps an oto context as a soitto.AudioContext.
	Context struct {
		context *oto.Context
	}

	// Output adapts oto's pull-based player into the push-based
	// soitto.AudioSink: writes go into a pipe that the player drains.
	Output struct {
		player *oto.Player
		pipe   *io.PipeWriter
		tmp    []byte
	}
)

// NewContext opens the platform audio device for mono float32 playback at
// the given sample rate, blocking until the device is ready.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context}, nil
}

func (c *Context) Output() soitto.AudioSink {
	pr, pw := io.Pipe()
	player := c.context.NewPlayer(pr)
	player.Play()
	return &Output{player: player, pipe: pw}
}

// Close suspends the context; oto contexts cannot be closed outright.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// WriteAudio queues the buffer for playback, blocking while the device
// drains earlier writes. The tmp buffer is reused across calls by setting
// its length to zero, keeping its capacity.
func (o *Output) WriteAudio(buffer []float32) error {
	o.tmp = FloatBufferToLE(buffer, o.tmp[:0])
	if _, err := o.pipe.Write(o.tmp); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close waits until everything written has been played, then disposes of
// the player.
func (o *Output) Close() error {
	o.pipe.Close()
	for o.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
