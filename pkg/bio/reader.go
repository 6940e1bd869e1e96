package bio

import "math"

// Reader decodes fixed-width values sequentially from a caller-owned buffer.
// The buffer is borrowed, never copied or modified, and must stay immutable
// and alive for the Reader's lifetime.
type Reader struct {
	buf   []byte
	pos   int
	order ByteOrder
}

// NewReader returns a Reader over buf using the given byte order. The order
// is fixed for the Reader's lifetime.
func NewReader(buf []byte, order ByteOrder) *Reader {
	return &Reader{buf: buf, order: order}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int { return r.pos }

// Remaining returns the number of bytes not yet consumed.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// ReadUint8 decodes a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrOutOfRange
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadUint16 decodes a 16-bit unsigned integer using the Reader's byte order.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrOutOfRange
	}
	v := r.order.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 decodes a 32-bit unsigned integer using the Reader's byte order.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrOutOfRange
	}
	v := r.order.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 decodes a 64-bit unsigned integer using the Reader's byte order.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, ErrOutOfRange
	}
	v := r.order.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadInt8 decodes a byte and reinterprets its bits as a signed value.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 decodes a 16-bit value and reinterprets its bits as signed.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 decodes a 32-bit value and reinterprets its bits as signed.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 decodes a 64-bit value and reinterprets its bits as signed.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 decodes 32 bits and reinterprets them as an IEEE-754 binary32
// value. NaNs, infinities, subnormals, and signed zero pass through
// bit-for-bit with no validation.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 decodes 64 bits and reinterprets them as an IEEE-754 binary64
// value, with the same pass-through semantics as ReadFloat32.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes copies exactly len(dst) bytes from the buffer into dst. A
// zero-length dst always succeeds and does not move the cursor. On failure
// no bytes are copied.
func (r *Reader) ReadBytes(dst []byte) error {
	if len(dst) > r.Remaining() {
		return ErrOutOfRange
	}
	copy(dst, r.buf[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return nil
}

// Skip advances the cursor by n bytes without producing output. Skip(0)
// always succeeds, even on an exhausted Reader.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Remaining() {
		return ErrOutOfRange
	}
	r.pos += n
	return nil
}
