package store

import (
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"
)

type BBolt struct {
	db *bbolt.DB
}

const (
	bboltGpiodashBucket = "gpiodash"
	bboltEventsBucket   = "events" // child of gpiodash
)

// OpenBBolt opens a BBoltDB database at the given path and creates the needed buckets
// if they don't exist.
func OpenBBolt(path string, mode os.FileMode, options *bbolt.Options) (Store, error) {
	db, err := bbolt.Open(path, mode, options)
	if err != nil {
		return nil, fmt.Errorf("unable to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		gpiodashBucket, err := tx.CreateBucketIfNotExists([]byte(bboltGpiodashBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltGpiodashBucket, err)
		}

		_, err = gpiodashBucket.CreateBucketIfNotExists([]byte(bboltEventsBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltEventsBucket, err)
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create bbolt buckets: %w", err)
	}

	return &BBolt{
		db: db,
	}, nil
}

func (b *BBolt) Close() error {
	return b.db.Close()
}

func (b *BBolt) events(tx *bbolt.Tx) *bbolt.Bucket {
	return tx.Bucket([]byte(bboltGpiodashBucket)).Bucket([]byte(bboltEventsBucket))
}

func (b *BBolt) Append(e Event) (Event, error) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := b.events(tx)

		id, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("unable to get next event id: %w", err)
		}
		e.ID = id

		eventJSON, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("unable to marshal event: %w", err)
		}

		if err := bucket.Put(eventKey(nil, id), eventJSON); err != nil {
			return fmt.Errorf("unable to put event %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return e, fmt.Errorf("unable to append event: %w", err)
	}

	return e, nil
}

func (b *BBolt) Events(limit int) ([]Event, error) {
	events := make([]Event, 0)

	err := b.db.View(func(tx *bbolt.Tx) error {
		c := b.events(tx).Cursor()

		for k, v := c.Last(); k != nil && len(events) < limit; k, v = c.Prev() {
			var e Event
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unable to unmarshal event JSON: %w", err)
			}
			events = append(events, e)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %w", err)
	}

	return events, nil
}
