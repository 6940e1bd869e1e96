package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrNotFound reports a lookup for a key that is not in the store.
var ErrNotFound = errors.New("storage: key not found")

// Options configures a Store.
type Options struct {
	// Compress enables zstd compression of stored payloads.
	Compress bool
}

// Store keeps enveloped payloads in a pebble database keyed by KSUID.
type Store struct {
	db   *pebble.DB
	opts Options
}

// Open opens (or creates) the store at path.
func Open(path string, opts Options) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	return &Store{db: db, opts: opts}, nil
}

// Put stores payload under a freshly generated key and returns it.
func (s *Store) Put(payload []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.set(id, payload); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Update overwrites the payload stored under id.
func (s *Store) Update(id ksuid.KSUID, payload []byte) error {
	return s.set(id, payload)
}

func (s *Store) set(id ksuid.KSUID, payload []byte) error {
	record, err := encodeEnvelope(payload, time.Now(), s.opts.Compress)
	if err != nil {
		return err
	}
	if err := s.db.Set(id.Bytes(), record, pebble.NoSync); err != nil {
		return fmt.Errorf("storage: put %s: %w", id, err)
	}
	return nil
}

// Get returns the envelope stored under id.
func (s *Store) Get(id ksuid.KSUID) (*Envelope, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("storage: get %s: %w", id, err)
	}
	defer closer.Close()

	return decodeEnvelope(data)
}

// Delete removes the record stored under id. Deleting a missing key is
// not an error.
func (s *Store) Delete(id ksuid.KSUID) error {
	if err := s.db.Delete(id.Bytes(), pebble.NoSync); err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
