package hardware

import (
	"fmt"

	"github.com/gpiodash/gpiodash/hardware/gpio"
)

// Driver names a GPIO access method.
type Driver string

const (
	// DriverPigpio talks to a pigpio daemon over its socket interface.
	DriverPigpio Driver = "pigpio"
	// DriverPeriph uses periph.io host drivers.
	DriverPeriph Driver = "periph"
	// DriverCdev uses the Linux GPIO character device.
	DriverCdev Driver = "cdev"
	// DriverRpio maps the Raspberry Pi GPIO registers directly.
	DriverRpio Driver = "rpio"
	// DriverMemory keeps levels in memory, for machines without GPIO.
	DriverMemory Driver = "memory"
)

// Config selects and configures the GPIO driver.
type Config struct {
	Driver Driver `json:"driver"`

	// PigpioAddr is the address of the pigpio daemon, used by DriverPigpio.
	PigpioAddr string `json:"pigpioAddr,omitempty"`

	// Chip is the character device chip name, used by DriverCdev.
	Chip string `json:"chip,omitempty"`
}

// ErrUnknownDriver is returned by New for a driver name it doesn't know.
type ErrUnknownDriver struct {
	error
}

func (err ErrUnknownDriver) Is(target error) bool {
	_, ok := target.(ErrUnknownDriver)
	return ok
}

// New opens the GPIO driver described by config.
func New(config Config) (gpio.GPIO, error) {
	switch config.Driver {
	case DriverPigpio:
		p, err := gpio.DialPigpio(config.PigpioAddr)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverPeriph:
		p, err := gpio.OpenPeriph()
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverCdev:
		c, err := gpio.OpenCdev(config.Chip)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverRpio:
		r, err := gpio.OpenRpio()
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverMemory:
		return gpio.NewMemory(), nil
	}

	return nil, ErrUnknownDriver{fmt.Errorf("unknown gpio driver %q", config.Driver)}
}
