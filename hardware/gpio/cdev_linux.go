//go:build linux
// +build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

const cdevConsumer = "gpiodash"

// Cdev drives pins through the GPIO character device (/dev/gpiochipN). Pin
// numbers are line offsets on the chip, which match BCM numbers on
// gpiochip0 of a Raspberry Pi.
type Cdev struct {
	chip *gpiocdev.Chip

	mu    sync.Mutex
	lines map[int]*gpiocdev.Line
}

var _ GPIO = &Cdev{}

// OpenCdev opens the named chip, e.g. "gpiochip0".
func OpenCdev(chip string) (*Cdev, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(cdevConsumer))
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chip, err)
	}

	return &Cdev{chip: c, lines: make(map[int]*gpiocdev.Line)}, nil
}

// line returns the requested line for pin, requesting it with its direction
// left as is if this is the first use.
func (c *Cdev) line(pin int) (*gpiocdev.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.lines[pin]; ok {
		return l, nil
	}

	l, err := c.chip.RequestLine(pin, gpiocdev.AsIs)
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line %d: %w", pin, err)
	}
	c.lines[pin] = l

	return l, nil
}

// SetOutput reconfigures the line as an output holding its present value.
func (c *Cdev) SetOutput(pin int) error {
	l, err := c.line(pin)
	if err != nil {
		return err
	}

	v, err := l.Value()
	if err != nil {
		return fmt.Errorf("failed to read GPIO line %d: %w", pin, err)
	}

	if err := l.Reconfigure(gpiocdev.AsOutput(v)); err != nil {
		return fmt.Errorf("failed to set GPIO line %d as output: %w", pin, err)
	}

	return nil
}

func (c *Cdev) Write(pin int, level Level) error {
	l, err := c.line(pin)
	if err != nil {
		return err
	}

	v := 0
	if level {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("failed to write GPIO line %d: %w", pin, err)
	}

	return nil
}

func (c *Cdev) Read(pin int) (Level, error) {
	l, err := c.line(pin)
	if err != nil {
		return Low, err
	}

	v, err := l.Value()
	if err != nil {
		return Low, fmt.Errorf("failed to read GPIO line %d: %w", pin, err)
	}

	return v != 0, nil
}

// Close releases all requested lines and the chip.
func (c *Cdev) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for pin, l := range c.lines {
		l.Close()
		delete(c.lines, pin)
	}

	return c.chip.Close()
}
