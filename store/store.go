package store

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/gpiodash/gpiodash/hardware/gpio"
)

// Event records one pin action carried out through the dashboard.
type Event struct {
	ID      uint64     `json:"id"`
	Time    time.Time  `json:"time"`
	Pin     int        `json:"pin"`
	Name    string     `json:"name"`
	Action  string     `json:"action"`
	Level   gpio.Level `json:"level"`
	Message string     `json:"message"`
}

// Store describes an append-only journal of pin actions. Pin state is never
// restored from it.
type Store interface {
	// Append assigns the event the next ID and stores it.
	Append(e Event) (Event, error)

	// Events returns up to limit events, newest first.
	Events(limit int) ([]Event, error)

	io.Closer
}

// eventKey encodes an ID big-endian so that keys sort in ID order.
func eventKey(prefix []byte, id uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], id)
	return key
}
