package store

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v2"
)

type Badger struct {
	db  *badger.DB
	seq *badger.Sequence
}

const (
	badgerEventPrefix  = "events/"
	badgerSequenceKey  = "seq/events"
	badgerSeqBandwidth = 64
)

// OpenBadger opens a badger DB with the given options as an event journal.
func OpenBadger(options badger.Options) (Store, error) {
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("unable to open badger db: %w", err)
	}

	seq, err := db.GetSequence([]byte(badgerSequenceKey), badgerSeqBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to get event sequence: %w", err)
	}

	return &Badger{db: db, seq: seq}, nil
}

func (b *Badger) Close() error {
	if err := b.seq.Release(); err != nil {
		b.db.Close()
		return fmt.Errorf("couldn't release event sequence: %w", err)
	}

	return b.db.Close()
}

func (b *Badger) Append(e Event) (Event, error) {
	next, err := b.seq.Next()
	if err != nil {
		return e, fmt.Errorf("couldn't get next event id: %w", err)
	}
	// sequences start at zero, IDs start at one
	e.ID = next + 1

	eventJSON, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("couldn't marshal event: %w", err)
	}

	err = b.db.Update(func(tx *badger.Txn) error {
		return tx.Set(eventKey([]byte(badgerEventPrefix), e.ID), eventJSON)
	})
	if err != nil {
		return e, fmt.Errorf("couldn't append event %d: %w", e.ID, err)
	}

	return e, nil
}

func (b *Badger) Events(limit int) ([]Event, error) {
	events := make([]Event, 0)

	err := b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := tx.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerEventPrefix)
		for it.Seek(eventKey(prefix, ^uint64(0))); it.ValidForPrefix(prefix) && len(events) < limit; it.Next() {
			var e Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("couldn't decode event: %w", err)
			}

			events = append(events, e)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't walk events: %w", err)
	}

	return events, nil
}
