package bio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriter(buf, LittleEndian)
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, 4, w.Remaining())
	assert.Equal(t, 0, w.Position())
	assert.Empty(t, w.Bytes())

	empty := NewWriter(nil, LittleEndian)
	assert.Equal(t, 0, empty.Remaining())
}

func TestWriterUint8(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf, LittleEndian)

	require.NoError(t, w.WriteUint8(0xAB))
	assert.Equal(t, []byte{0xAB}, buf)
	assert.Equal(t, 0, w.Remaining())

	assert.ErrorIs(t, w.WriteUint8(0xCD), ErrOutOfRange)
	assert.ErrorIs(t, w.WriteUint8(0xCD), ErrOutOfRange)
	assert.Equal(t, []byte{0xAB}, buf)
}

func TestWriterUnsigned(t *testing.T) {
	tests := []struct {
		name  string
		order ByteOrder
		write func(*Writer) error
		want  []byte
	}{
		{"LE uint16", LittleEndian, func(w *Writer) error { return w.WriteUint16(0x1234) }, []byte{0x34, 0x12}},
		{"BE uint16", BigEndian, func(w *Writer) error { return w.WriteUint16(0x1234) }, []byte{0x12, 0x34}},
		{"LE uint32", LittleEndian, func(w *Writer) error { return w.WriteUint32(0x12345678) }, []byte{0x78, 0x56, 0x34, 0x12}},
		{"BE uint32", BigEndian, func(w *Writer) error { return w.WriteUint32(0x12345678) }, []byte{0x12, 0x34, 0x56, 0x78}},
		{"LE uint64", LittleEndian, func(w *Writer) error { return w.WriteUint64(0x0123456789ABCDEF) },
			[]byte{0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}},
		{"BE uint64", BigEndian, func(w *Writer) error { return w.WriteUint64(0x0123456789ABCDEF) },
			[]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, len(tc.want))
			w := NewWriter(buf, tc.order)
			require.NoError(t, tc.write(w))
			assert.Equal(t, tc.want, buf)
			assert.Equal(t, tc.want, w.Bytes())
			assert.Equal(t, 0, w.Remaining())
		})
	}
}

func TestWriterShortBuffer(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		write func(*Writer) error
	}{
		{"uint16 with 1 byte", 1, func(w *Writer) error { return w.WriteUint16(1) }},
		{"uint16 empty", 0, func(w *Writer) error { return w.WriteUint16(1) }},
		{"uint32 with 3 bytes", 3, func(w *Writer) error { return w.WriteUint32(1) }},
		{"uint64 with 7 bytes", 7, func(w *Writer) error { return w.WriteUint64(1) }},
		{"int32 with 3 bytes", 3, func(w *Writer) error { return w.WriteInt32(-1) }},
		{"int64 with 7 bytes", 7, func(w *Writer) error { return w.WriteInt64(-1) }},
		{"float32 with 3 bytes", 3, func(w *Writer) error { return w.WriteFloat32(1) }},
		{"float64 with 7 bytes", 7, func(w *Writer) error { return w.WriteFloat64(1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, tc.size)
			for i := range buf {
				buf[i] = 0x5A
			}
			w := NewWriter(buf, LittleEndian)
			err := tc.write(w)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, 0, w.Position())
			assert.Equal(t, tc.size, w.Remaining())
			// nothing at or beyond the cursor was modified
			for i := range buf {
				assert.Equal(t, byte(0x5A), buf[i])
			}
		})
	}
}

func TestWriterSigned(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf, BigEndian)
	require.NoError(t, w.WriteInt16(-2))
	assert.Equal(t, []byte{0xFF, 0xFE}, buf)

	buf4 := make([]byte, 4)
	require.NoError(t, NewWriter(buf4, LittleEndian).WriteInt32(math.MinInt32))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, buf4)

	buf8 := make([]byte, 8)
	require.NoError(t, NewWriter(buf8, LittleEndian).WriteInt64(-1))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf8)

	buf1 := make([]byte, 1)
	require.NoError(t, NewWriter(buf1, LittleEndian).WriteInt8(-128))
	assert.Equal(t, []byte{0x80}, buf1)
}

func TestWriterFloats(t *testing.T) {
	buf := make([]byte, 4)
	require.NoError(t, NewWriter(buf, LittleEndian).WriteFloat32(1.0))
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, buf)

	buf8 := make([]byte, 8)
	require.NoError(t, NewWriter(buf8, BigEndian).WriteFloat64(1.0))
	assert.Equal(t, []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0}, buf8)

	// negative zero keeps its sign bit
	require.NoError(t, NewWriter(buf, LittleEndian).WriteFloat32(float32(math.Copysign(0, -1))))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, buf)
}

func TestWriterBytes(t *testing.T) {
	t.Run("copies verbatim", func(t *testing.T) {
		buf := make([]byte, 5)
		w := NewWriter(buf, LittleEndian)
		require.NoError(t, w.WriteBytes([]byte{1, 2, 3}))
		assert.Equal(t, []byte{1, 2, 3, 0, 0}, buf)
		assert.Equal(t, 2, w.Remaining())
	})

	t.Run("too long fails without writing", func(t *testing.T) {
		buf := []byte{7, 7}
		w := NewWriter(buf, LittleEndian)
		err := w.WriteBytes([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, []byte{7, 7}, buf)
		assert.Equal(t, 0, w.Position())
	})

	t.Run("zero length always succeeds", func(t *testing.T) {
		w := NewWriter(nil, LittleEndian)
		require.NoError(t, w.WriteBytes(nil))
		require.NoError(t, w.WriteBytes([]byte{}))
		assert.Equal(t, 0, w.Position())
	})
}

func TestWriterSkip(t *testing.T) {
	buf := []byte{0xEE, 0xEE, 0xEE, 0xEE}
	w := NewWriter(buf, LittleEndian)

	require.NoError(t, w.Skip(2))
	assert.Equal(t, 2, w.Position())
	// skipped bytes stay untouched
	assert.Equal(t, []byte{0xEE, 0xEE, 0xEE, 0xEE}, buf)

	require.NoError(t, w.WriteUint8(0x11))
	assert.Equal(t, []byte{0xEE, 0xEE, 0x11, 0xEE}, buf)

	assert.ErrorIs(t, w.Skip(2), ErrOutOfRange)
	assert.Equal(t, 3, w.Position())

	require.NoError(t, w.Skip(0))
	require.NoError(t, w.Skip(1))
	assert.ErrorIs(t, w.Skip(1), ErrOutOfRange)
	assert.ErrorIs(t, w.Skip(-1), ErrOutOfRange)
}

// WriteUint64 into a 7-byte buffer fails, remaining stays 7, and a
// subsequent WriteUint8 on the same writer still succeeds.
func TestWriterRecoveryAfterFailure(t *testing.T) {
	buf := make([]byte, 7)
	w := NewWriter(buf, LittleEndian)

	assert.ErrorIs(t, w.WriteUint64(0xDEADBEEF), ErrOutOfRange)
	assert.Equal(t, 7, w.Remaining())

	require.NoError(t, w.WriteUint8(0x42))
	assert.Equal(t, byte(0x42), buf[0])
	assert.Equal(t, 6, w.Remaining())
}

func TestWriterSequentialExhaustion(t *testing.T) {
	w := NewWriter(make([]byte, 8), LittleEndian)

	require.NoError(t, w.WriteUint32(1))
	require.NoError(t, w.WriteUint16(2))
	require.NoError(t, w.WriteUint8(3))
	require.NoError(t, w.WriteUint8(4))

	assert.ErrorIs(t, w.WriteUint8(5), ErrOutOfRange)
}

func TestWriterPositionInvariant(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf, BigEndian)

	check := func() {
		assert.Equal(t, w.Len(), w.Position()+w.Remaining())
	}

	check()
	_ = w.WriteUint64(1)
	check()
	_ = w.WriteFloat32(2)
	check()
	require.NoError(t, w.Skip(5))
	check()
	require.NoError(t, w.WriteBytes(make([]byte, 10)))
	check()
	_ = w.WriteBytes(make([]byte, 100)) // fails
	check()
	_ = w.WriteUint64(1) // fails, 5 bytes left
	check()
}
