package smf

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF indicates a read past the end of the data, at any point
// of the decode.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// DecodeError is the error type returned by Decode. It wraps one of the
// sentinel errors of this package and carries the byte offset in the
// original buffer where decoding failed, for diagnostic reporting.
type DecodeError struct {
	Offset int
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v at offset %d: %v", e.Err, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrorf(offset int, err error, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// reader is a sequential big-endian cursor over an immutable byte buffer.
// Every read either advances the position by exactly the number of bytes
// consumed, or leaves the position unchanged and returns an error wrapping
// ErrUnexpectedEOF. The reader never writes to or retains buf beyond the
// call.
type reader struct {
	buf  []byte
	pos  int
	base int // offset of buf[0] in the decoded file, for error reporting
}

func (r *reader) offset() int { return r.base + r.pos }

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) eof(need int) error {
	return decodeErrorf(r.offset(), ErrUnexpectedEOF, "need %d bytes, %d left", need, r.remaining())
}

func (r *reader) readU8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, r.eof(1)
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) readU16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, r.eof(2)
	}
	v := uint16(r.buf[r.pos])<<8 | uint16(r.buf[r.pos+1])
	r.pos += 2
	return v, nil
}

func (r *reader) readU32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, r.eof(4)
	}
	v := uint32(r.buf[r.pos])<<24 | uint32(r.buf[r.pos+1])<<16 |
		uint32(r.buf[r.pos+2])<<8 | uint32(r.buf[r.pos+3])
	r.pos += 4
	return v, nil
}

func (r *reader) readRange(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, r.eof(n)
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// readVarLen decodes a MIDI variable-length quantity of up to 4 bytes,
// each byte contributing 7 bits, with the high bit flagging continuation.
// A still-set continuation bit on the 4th byte is not an error: the read
// stops at four bytes and returns the value accumulated so far.
func (r *reader) readVarLen() (uint32, error) {
	start := r.pos
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := r.readU8()
		if err != nil {
			r.pos = start
			return 0, err
		}
		v = v<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// AppendVarLen appends v encoded as a MIDI variable-length quantity to dst
// and returns the result. Values of 28 bits or less fit the 4-byte cap of
// the encoding; higher bits are silently truncated.
func AppendVarLen(dst []byte, v uint32) []byte {
	var tmp [4]byte
	n := 0
	for {
		tmp[n] = byte(v & 0x7f)
		v >>= 7
		n++
		if v == 0 || n == 4 {
			break
		}
	}
	for i := n - 1; i >= 0; i-- {
		b := tmp[i]
		if i > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
