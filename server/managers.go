package server

import (
	"sync"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/gpiodash/gpiodash/pins"
)

// pinManager synchronizes access to the underlying hardware. Each pin has its
// own lock so that a toggle's read and write can't interleave with another
// request on the same pin, while requests for different pins don't wait on
// each other.
type pinManager struct {
	gpio     gpio.GPIO
	registry *pins.Registry
	locks    map[int]*sync.Mutex
}

func newPinManager(g gpio.GPIO, registry *pins.Registry) *pinManager {
	m := &pinManager{
		gpio:     g,
		registry: registry,
		locks:    make(map[int]*sync.Mutex, registry.Len()),
	}
	for _, p := range registry.Pins() {
		m.locks[p.Number] = new(sync.Mutex)
	}

	return m
}

// View runs fn with the pin locked. The pin must be registered.
func (m *pinManager) View(pin *pins.Pin, fn func(g gpio.GPIO) error) error {
	mu := m.locks[pin.Number]
	mu.Lock()
	defer mu.Unlock()

	return fn(m.gpio)
}

func (m *pinManager) Write(pin *pins.Pin, level gpio.Level) error {
	return m.View(pin, func(g gpio.GPIO) error {
		return g.Write(pin.Number, level)
	})
}

// Toggle drives the pin to the opposite of its current level and returns the
// new level.
func (m *pinManager) Toggle(pin *pins.Pin) (gpio.Level, error) {
	var level gpio.Level
	err := m.View(pin, func(g gpio.GPIO) error {
		current, err := g.Read(pin.Number)
		if err != nil {
			return err
		}

		level = !current
		return g.Write(pin.Number, level)
	})

	return level, err
}

// Refresh reads the live level of every registered pin and stores it as the
// pin's cached state. It stops at the first read failure.
func (m *pinManager) Refresh() ([]*pins.Pin, error) {
	all := m.registry.Pins()
	for _, p := range all {
		err := m.View(p, func(g gpio.GPIO) error {
			level, err := g.Read(p.Number)
			if err != nil {
				return err
			}

			p.SetState(level)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return all, nil
}
