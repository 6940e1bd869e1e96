// Package storage persists encoded messages in an embedded key-value
// store. Every record is framed in a fixed envelope so payloads can be
// validated and optionally compressed without the caller knowing the
// on-disk layout:
//
//	magic   u32  always 0x42494F31 ("BIO1")
//	version u8   envelope format version
//	flags   u8   bit 0 set when the payload is zstd compressed
//	stored  u64  unix nanoseconds at write time
//	length  u32  payload byte count as stored
//	payload
//
// The envelope itself is little endian regardless of the byte order of
// the message inside it.
package storage

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/binary-io/binaryio/pkg/bio"
)

const (
	envelopeMagic   = 0x42494F31
	envelopeVersion = 1
	headerSize      = 4 + 1 + 1 + 8 + 4

	flagCompressed = 1 << 0
)

// ErrBadEnvelope reports a record that does not carry a valid envelope.
var ErrBadEnvelope = errors.New("storage: malformed envelope")

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Envelope is a decoded record: the payload plus its write timestamp.
type Envelope struct {
	Stored     time.Time
	Compressed bool // payload was zstd compressed on disk
	Payload    []byte
}

// encodeEnvelope frames payload for storage. When compress is set the
// payload is zstd compressed, unless compression does not shrink it.
func encodeEnvelope(payload []byte, now time.Time, compress bool) ([]byte, error) {
	if len(payload) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds envelope limit", ErrBadEnvelope, len(payload))
	}

	body := payload
	var flags uint8
	if compress {
		c := zstdEncoder.EncodeAll(payload, make([]byte, 0, len(payload)))
		if len(c) < len(payload) {
			body = c
			flags |= flagCompressed
		}
	}

	buf := make([]byte, headerSize+len(body))
	w := bio.NewWriter(buf, bio.LittleEndian)
	if err := w.WriteUint32(envelopeMagic); err != nil {
		return nil, err
	}
	if err := w.WriteUint8(envelopeVersion); err != nil {
		return nil, err
	}
	if err := w.WriteUint8(flags); err != nil {
		return nil, err
	}
	if err := w.WriteUint64(uint64(now.UnixNano())); err != nil {
		return nil, err
	}
	if err := w.WriteUint32(uint32(len(body))); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(body); err != nil {
		return nil, err
	}
	return buf, nil
}

// decodeEnvelope validates the frame and returns the payload, copied out
// of data and decompressed when needed.
func decodeEnvelope(data []byte) (*Envelope, error) {
	r := bio.NewReader(data, bio.LittleEndian)

	magic, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: record shorter than header", ErrBadEnvelope)
	}
	if magic != envelopeMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrBadEnvelope, magic)
	}

	version, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: record shorter than header", ErrBadEnvelope)
	}
	if version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadEnvelope, version)
	}

	flags, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: record shorter than header", ErrBadEnvelope)
	}
	stored, err := r.ReadUint64()
	if err != nil {
		return nil, fmt.Errorf("%w: record shorter than header", ErrBadEnvelope)
	}
	length, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: record shorter than header", ErrBadEnvelope)
	}
	if int(length) != r.Remaining() {
		return nil, fmt.Errorf("%w: payload length %d does not match %d remaining bytes",
			ErrBadEnvelope, length, r.Remaining())
	}

	payload := make([]byte, length)
	if err := r.ReadBytes(payload); err != nil {
		return nil, fmt.Errorf("%w: truncated payload", ErrBadEnvelope)
	}

	compressed := flags&flagCompressed != 0
	if compressed {
		payload, err = zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrBadEnvelope, err)
		}
	}

	return &Envelope{
		Stored:     time.Unix(0, int64(stored)),
		Compressed: compressed,
		Payload:    payload,
	}, nil
}
