package soitto

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

type (
	// WaveKind enumerates the built-in waveform shapes, plus Custom for
	// waveforms built from caller-supplied harmonic coefficients.
	WaveKind int

	// Waveform is a periodic wave, evaluated either in the time domain
	// (Value) or as harmonic coefficients for additive synthesis
	// (Decompose). The Real and Imag fields are only set for Custom
	// waveforms; for the built-in kinds the coefficients are derived from
	// the closed-form Fourier series of the shape.
	Waveform struct {
		Kind       WaveKind
		Real, Imag []float32
	}
)

const (
	Sine WaveKind = iota
	Square
	Sawtooth
	Triangle
	Custom
	NumWaveKinds
)

// numPartials is the number of harmonic coefficients returned by Decompose
// for the built-in waveforms, including the unused DC slot at index 0.
const numPartials = 32

var waveKindNames = [NumWaveKinds]string{"sine", "square", "sawtooth", "triangle", "custom"}

func (k WaveKind) String() string {
	if k < 0 || k >= NumWaveKinds {
		return fmt.Sprintf("WaveKind(%d)", int(k))
	}
	return waveKindNames[k]
}

// WaveKindForName returns the built-in wave kind with the given name.
// Custom waveforms are constructed with CustomWaveform instead.
func WaveKindForName(name string) (WaveKind, bool) {
	for k := Sine; k < Custom; k++ {
		if waveKindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// CustomWaveform builds a Waveform from harmonic coefficient arrays: real
// are the cosine terms and imag the sine terms, index 0 being the unused
// DC component. The arrays must have equal length.
func CustomWaveform(real, imag []float32) (Waveform, error) {
	if len(real) != len(imag) {
		return Waveform{}, errors.New("real and imag coefficient arrays must have equal length")
	}
	r := make([]float32, len(real))
	im := make([]float32, len(imag))
	copy(r, real)
	copy(im, imag)
	return Waveform{Kind: Custom, Real: r, Imag: im}, nil
}

// Value evaluates the waveform at the given frequency (Hz) and time
// (seconds), returning a value in [-1, 1]. Custom waveforms are evaluated
// by direct summation over their coefficients, so they carry no
// performance guarantee.
func (w Waveform) Value(frequency, time float32) float32 {
	ft := frequency * time
	switch w.Kind {
	case Sine:
		return math32.Sin(2 * math32.Pi * ft)
	case Square:
		if ft-math32.Floor(ft) < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2 * (ft - math32.Floor(ft+0.5))
	case Triangle:
		return 2*math32.Abs(2*(ft-math32.Floor(ft+0.5))) - 1
	case Custom:
		var ret float32
		for k := 1; k < len(w.Real); k++ {
			phase := 2 * math32.Pi * float32(k) * ft
			ret += w.Real[k]*math32.Cos(phase) + w.Imag[k]*math32.Sin(phase)
		}
		return ret
	}
	return 0
}

// Decompose returns the harmonic decomposition of the waveform as two
// equal-length coefficient arrays: cosine terms first ("real"), sine terms
// second ("imag"). The wave is reconstructed as the sum over k >= 1 of
// real[k]*cos(2*pi*k*f*t) + imag[k]*sin(2*pi*k*f*t); index 0 is the unused
// DC component. The returned slices are owned by the caller.
func (w Waveform) Decompose() (real, imag []float32) {
	if w.Kind == Custom {
		real = make([]float32, len(w.Real))
		imag = make([]float32, len(w.Imag))
		copy(real, w.Real)
		copy(imag, w.Imag)
		return real, imag
	}
	real = make([]float32, numPartials)
	imag = make([]float32, numPartials)
	switch w.Kind {
	case Sine:
		imag[1] = 1
	case Square:
		for k := 1; k < numPartials; k += 2 {
			imag[k] = 4 / (float32(k) * math32.Pi)
		}
	case Sawtooth:
		sign := float32(1)
		for k := 1; k < numPartials; k++ {
			imag[k] = sign * 2 / (float32(k) * math32.Pi)
			sign = -sign
		}
	case Triangle:
		for k := 1; k < numPartials; k += 2 {
			kPi := float32(k) * math32.Pi
			imag[k] = 8 * math32.Sin(kPi/2) / (kPi * kPi)
		}
	}
	return real, imag
}
