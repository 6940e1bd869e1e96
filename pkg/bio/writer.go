package bio

import "math"

// Writer encodes fixed-width values sequentially into a caller-owned buffer.
// The buffer is borrowed and never grown; the Writer must have exclusive
// access to it for its lifetime.
type Writer struct {
	buf   []byte
	pos   int
	order ByteOrder
}

// NewWriter returns a Writer over buf using the given byte order. The order
// is fixed for the Writer's lifetime.
func NewWriter(buf []byte, order ByteOrder) *Writer {
	return &Writer{buf: buf, order: order}
}

// Len returns the total capacity of the underlying buffer.
func (w *Writer) Len() int { return len(w.buf) }

// Position returns the number of bytes written so far.
func (w *Writer) Position() int { return w.pos }

// Remaining returns the capacity not yet written.
func (w *Writer) Remaining() int { return len(w.buf) - w.pos }

// Bytes returns the prefix of the buffer written so far. The returned slice
// aliases the caller's buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

// WriteUint8 encodes a single byte.
func (w *Writer) WriteUint8(v uint8) error {
	if w.Remaining() < 1 {
		return ErrOutOfRange
	}
	w.buf[w.pos] = v
	w.pos++
	return nil
}

// WriteUint16 encodes a 16-bit unsigned integer using the Writer's byte order.
func (w *Writer) WriteUint16(v uint16) error {
	if w.Remaining() < 2 {
		return ErrOutOfRange
	}
	w.order.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
	return nil
}

// WriteUint32 encodes a 32-bit unsigned integer using the Writer's byte order.
func (w *Writer) WriteUint32(v uint32) error {
	if w.Remaining() < 4 {
		return ErrOutOfRange
	}
	w.order.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
	return nil
}

// WriteUint64 encodes a 64-bit unsigned integer using the Writer's byte order.
func (w *Writer) WriteUint64(v uint64) error {
	if w.Remaining() < 8 {
		return ErrOutOfRange
	}
	w.order.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
	return nil
}

// WriteInt8 encodes the bit pattern of v as a single byte.
func (w *Writer) WriteInt8(v int8) error { return w.WriteUint8(uint8(v)) }

// WriteInt16 encodes the bit pattern of v as a 16-bit value.
func (w *Writer) WriteInt16(v int16) error { return w.WriteUint16(uint16(v)) }

// WriteInt32 encodes the bit pattern of v as a 32-bit value.
func (w *Writer) WriteInt32(v int32) error { return w.WriteUint32(uint32(v)) }

// WriteInt64 encodes the bit pattern of v as a 64-bit value.
func (w *Writer) WriteInt64(v int64) error { return w.WriteUint64(uint64(v)) }

// WriteFloat32 encodes the IEEE-754 bit pattern of v, preserving NaN
// payloads and signed zero with no numeric normalization.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 encodes the IEEE-754 bit pattern of v, with the same
// guarantees as WriteFloat32.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteBytes copies src verbatim into the buffer. A zero-length src always
// succeeds and does not move the cursor. On failure no bytes are written.
func (w *Writer) WriteBytes(src []byte) error {
	if len(src) > w.Remaining() {
		return ErrOutOfRange
	}
	copy(w.buf[w.pos:], src)
	w.pos += len(src)
	return nil
}

// Skip advances the cursor by n bytes, leaving the skipped bytes untouched.
// Skip(0) always succeeds, even on an exhausted Writer.
func (w *Writer) Skip(n int) error {
	if n < 0 || n > w.Remaining() {
		return ErrOutOfRange
	}
	w.pos += n
	return nil
}
