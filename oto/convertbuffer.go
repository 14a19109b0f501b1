package oto

import (
	"encoding/binary"
	"math"
)

// FloatBufferToLE appends the float32 buffer as little-endian bytes to
// dst, which is returned; pass dst with length zero to reuse its
// capacity.
func FloatBufferToLE(buffer []float32, dst []byte) []byte {
	for _, v := range buffer {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
