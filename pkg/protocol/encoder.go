package protocol

import "math"

// Encoder appends binary values to an internal buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an encoder with room for a typical styles frame.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 512)}
}

// Reset empties the encoder, keeping its buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded bytes. The slice is valid until the next Reset
// or Write call.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends a single byte. The buffer grows as needed, so there is
// no error to return.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteUvarint appends an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteSvarint appends a ZigZag-encoded signed varint.
func (e *Encoder) WriteSvarint(v int64) {
	e.WriteUvarint(uint64((v << 1) ^ (v >> 63)))
}

// WriteString appends a varint length followed by the string bytes.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends 0x01 or 0x00.
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.buf = append(e.buf, 0x01)
		return
	}
	e.buf = append(e.buf, 0x00)
}

// WriteUint16 appends a big-endian uint16.
func (e *Encoder) WriteUint16(v uint16) {
	e.buf = append(e.buf, byte(v>>8), byte(v))
}

// WriteUint64 appends a big-endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	e.buf = append(e.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteFloat64 appends an IEEE 754 float64.
func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}
