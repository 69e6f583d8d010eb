//go:build linux
// +build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// rpioMaxPin is the highest BCM pin number the BCM283x register block covers.
const rpioMaxPin = 53

// Rpio drives pins by mapping the Raspberry Pi GPIO registers into memory.
// Requires administrator rights or access to /dev/gpiomem.
type Rpio struct{}

var _ GPIO = &Rpio{}

// OpenRpio opens and maps memory to access gpio.
func OpenRpio() (*Rpio, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("unable to map gpio memory: %w", err)
	}

	return &Rpio{}, nil
}

func (r *Rpio) pin(n int) (rpio.Pin, error) {
	if n < 0 || n > rpioMaxPin {
		return 0, fmt.Errorf("pin %d out of range", n)
	}

	return rpio.Pin(n), nil
}

func (r *Rpio) SetOutput(n int) error {
	pin, err := r.pin(n)
	if err != nil {
		return err
	}

	pin.Output()
	return nil
}

func (r *Rpio) Write(n int, level Level) error {
	pin, err := r.pin(n)
	if err != nil {
		return err
	}

	if level {
		pin.High()
	} else {
		pin.Low()
	}
	return nil
}

func (r *Rpio) Read(n int) (Level, error) {
	pin, err := r.pin(n)
	if err != nil {
		return Low, err
	}

	return pin.Read() == rpio.High, nil
}

// Close unmaps gpio memory.
func (r *Rpio) Close() error {
	return rpio.Close()
}
