// Package bio provides bounds-checked, cursor-based decoding and encoding of
// fixed-width binary values over caller-owned byte buffers.
//
// The package is built around three pieces:
//
//   - ByteOrder: a stateless load/store strategy for 16/32/64-bit unsigned
//     integers. Two instances exist, LittleEndian and BigEndian, chosen once
//     per Reader or Writer and fixed for its lifetime.
//   - Reader: a sequential decoder over an immutable buffer. Every read
//     checks the remaining length before touching the buffer.
//   - Writer: a sequential encoder over a mutable buffer. Every write checks
//     the remaining capacity before touching the buffer.
//
// # Contract
//
// Every operation is all-or-nothing. A failing operation returns
// ErrOutOfRange, leaves the cursor exactly where it was, and produces no
// output; a caller may keep going with smaller operations after a failure.
// At all times Position() + Remaining() == Len().
//
// Signed integers and floating-point values are transported as the bit
// pattern of the unsigned integer of equal width. Encoding then decoding any
// value reproduces it bit for bit, including NaN payloads, signed zero,
// infinities, and subnormals.
//
// # Usage
//
//	buf := make([]byte, 16)
//	w := bio.NewWriter(buf, bio.LittleEndian)
//	if err := w.WriteUint32(0x12345678); err != nil {
//	    return err
//	}
//
//	r := bio.NewReader(buf, bio.LittleEndian)
//	v, err := r.ReadUint32()
//	if err != nil {
//	    return err
//	}
//
// # Resource model
//
// Readers and Writers never allocate, never copy the whole buffer, and never
// grow it. They borrow the buffer for their lifetime and must not outlive it.
// A Reader requires that nothing mutates the buffer while it is in use; a
// Writer requires exclusive access. The package provides no locking; callers
// enforce exclusivity structurally.
package bio
