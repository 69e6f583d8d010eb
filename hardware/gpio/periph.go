package gpio

import (
	"fmt"

	// Use the new periph module layout.  See https://periph.io/news/2020/a_new_start/
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Periph drives pins through periph.io, which picks the fastest access method
// the host supports (memory mapped registers on a Raspberry Pi, sysfs
// otherwise).
type Periph struct{}

var _ GPIO = &Periph{}

// OpenPeriph initialises periph host state. Returning an error here will
// prevent the server from starting.
func OpenPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialise periph host: %w", err)
	}

	return &Periph{}, nil
}

func (p *Periph) pin(n int) (pgpio.PinIO, error) {
	pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if pin == nil {
		return nil, fmt.Errorf("no such pin GPIO%d", n)
	}

	return pin, nil
}

// SetOutput switches the pin to output while keeping its present level, so a
// pin that is already driven does not glitch before its default is written.
func (p *Periph) SetOutput(n int) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	if err := pin.Out(pin.Read()); err != nil {
		return fmt.Errorf("unable to set %s as output: %w", pin, err)
	}

	return nil
}

func (p *Periph) Write(n int, level Level) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	if err := pin.Out(pgpio.Level(level)); err != nil {
		return fmt.Errorf("unable to write %s: %w", pin, err)
	}

	return nil
}

func (p *Periph) Read(n int) (Level, error) {
	pin, err := p.pin(n)
	if err != nil {
		return Low, err
	}

	return Level(pin.Read() == pgpio.High), nil
}

// Close is a no-op: periph keeps no per-driver state to release.
func (p *Periph) Close() error {
	return nil
}
