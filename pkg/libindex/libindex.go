// Package libindex keeps a persistent cache of parsed FLAC metadata, keyed
// by file path. It backs the library scanner so unchanged files do not have
// to be re-parsed on every run.
package libindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/cadenza-tools/flacrw"
)

// ErrNotIndexed is returned by Get for paths the store has no record of.
var ErrNotIndexed = errors.New("libindex: path not indexed")

var recordPrefix = []byte("file:")

// Record is the indexed metadata of one file.
type Record struct {
	Path          string              `json:"path"`
	SampleRate    uint32              `json:"sample_rate"`
	ChannelCount  uint8               `json:"channel_count"`
	BitsPerSample uint8               `json:"bits_per_sample"`
	TotalSamples  uint64              `json:"total_samples"`
	FrameOffset   int64               `json:"frame_offset"`
	Tags          map[string][]string `json:"tags,omitempty"`
	ScannedAt     time.Time           `json:"scanned_at"`
}

// NewRecord builds a Record from a parsed container.
func NewRecord(path string, c *flacrw.Container) Record {
	rec := Record{
		Path:        path,
		FrameOffset: c.FrameOffset(),
		ScannedAt:   time.Now().UTC(),
	}
	if si := c.StreamInfo(); si != nil {
		rec.SampleRate = si.SampleRate
		rec.ChannelCount = si.ChannelCount
		rec.BitsPerSample = si.BitsPerSample
		rec.TotalSamples = si.TotalSamples
	}
	if vc := c.VorbisComment(); vc != nil {
		rec.Tags = vc.Tags()
	}
	return rec
}

// Store is a badger-backed record store.
type Store struct {
	config Config
	db     *badger.DB
	log    *logrus.Logger

	readCounter  uint64
	writeCounter uint64
}

// NewStore opens (or creates) the index at config.Path.
func NewStore(config Config) (*Store, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if err := config.check(); err != nil {
		return nil, fmt.Errorf("error checking config for Store: %w", err)
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.ValueLogFileSize = 1024 * 1024 * 100
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	config.Logger.WithField("path", config.Path).Info("opened metadata index")
	return &Store{config: config, db: db, log: config.Logger}, nil
}

// Put stores or replaces the record for rec.Path.
func (s *Store) Put(rec Record) error {
	atomic.AddUint64(&s.writeCounter, 1)

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.Path), value)
	})
	if err != nil {
		return fmt.Errorf("store record for %s: %w", rec.Path, err)
	}
	return nil
}

// Get returns the record stored for path, or ErrNotIndexed.
func (s *Store) Get(path string) (Record, error) {
	atomic.AddUint64(&s.readCounter, 1)

	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(path))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotIndexed, path)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load record for %s: %w", path, err)
	}
	return rec, nil
}

// Delete removes the record for path. Deleting an absent path is not an
// error.
func (s *Store) Delete(path string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(path))
	})
	if err != nil {
		return fmt.Errorf("delete record for %s: %w", path, err)
	}
	return nil
}

// Each calls fn for every stored record. Iteration stops at the first error.
func (s *Store) Each(fn func(Record) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			atomic.AddUint64(&s.readCounter, 1)
			var rec Record
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode record %s: %w", it.Item().Key(), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats reports the read and write counts since the store was opened.
func (s *Store) Stats() (reads, writes uint64) {
	return atomic.LoadUint64(&s.readCounter), atomic.LoadUint64(&s.writeCounter)
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close index database: %w", err)
	}
	return nil
}

func recordKey(path string) []byte {
	return append(append([]byte(nil), recordPrefix...), path...)
}
