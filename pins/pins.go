// Package pins holds the table of GPIO pins the dashboard controls: their
// numbers, display names and default levels.
package pins

import (
	"errors"
	"sort"
	"sync"

	"github.com/gpiodash/gpiodash/hardware/gpio"
)

// ErrUnknownPin is returned when a pin number is not in the registry.
var ErrUnknownPin = errors.New("pin is not registered")

// Pin is one configured output pin.
type Pin struct {
	Number  int
	Name    string
	Default gpio.Level

	mu    sync.Mutex
	state gpio.Level
}

// State returns the last level recorded for the pin. It is a cache; the
// hardware is authoritative.
func (p *Pin) State() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// SetState records a level read from the hardware.
func (p *Pin) SetState(level gpio.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = level
}

// Registry maps pin numbers to pins. It is built once at startup and never
// changes shape afterwards.
type Registry struct {
	pins    map[int]*Pin
	numbers []int
}

// NewRegistry builds a registry from pins. A later pin with the same number
// replaces an earlier one.
func NewRegistry(pins ...*Pin) *Registry {
	r := &Registry{pins: make(map[int]*Pin, len(pins))}
	for _, p := range pins {
		if _, ok := r.pins[p.Number]; !ok {
			r.numbers = append(r.numbers, p.Number)
		}
		p.state = p.Default
		r.pins[p.Number] = p
	}
	sort.Ints(r.numbers)

	return r
}

// Default returns the registry used when no pin table exists: GPIO23 and
// GPIO24, both off.
func Default() *Registry {
	return NewRegistry(
		&Pin{Number: 23, Name: "GPIO23", Default: gpio.Low},
		&Pin{Number: 24, Name: "GPIO24", Default: gpio.Low},
	)
}

// Lookup returns the pin with the given number.
func (r *Registry) Lookup(number int) (*Pin, error) {
	p, ok := r.pins[number]
	if !ok {
		return nil, ErrUnknownPin
	}

	return p, nil
}

// Pins returns every pin in ascending pin number order.
func (r *Registry) Pins() []*Pin {
	pins := make([]*Pin, 0, len(r.numbers))
	for _, n := range r.numbers {
		pins = append(pins, r.pins[n])
	}

	return pins
}

// Len returns the number of registered pins.
func (r *Registry) Len() int {
	return len(r.numbers)
}
