package gpio

// Level describes the binary state of a GPIO pin: either LOW or HIGH.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns "on" for HIGH and "off" for LOW.
func (l Level) String() string {
	if l {
		return "on"
	}
	return "off"
}

// GPIO is the set of pin operations the dashboard needs. Pins are addressed by
// their BCM numbers.
type GPIO interface {
	// SetOutput configures a pin as a digital output
	SetOutput(pin int) error

	// Write sets a pin to LOW or HIGH
	Write(pin int, level Level) error

	// Read returns the current level of a pin
	Read(pin int) (Level, error)

	// Close releases the driver's resources. Pin levels are left as they are.
	Close() error
}
