package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gpiodash/gpiodash/hardware"
	"github.com/gpiodash/gpiodash/hardware/gpio"
)

// gpio drives a single pin once through the same drivers as the dashboard,
// which is handy for checking wiring without starting the server.
func main() {
	var (
		driver     = flag.String("driver", string(hardware.DriverPeriph), "gpio driver: pigpio, periph, cdev or rpio")
		pigpioAddr = flag.String("pigpio-addr", "localhost:8888", "pigpio daemon address")
		chip       = flag.String("chip", "gpiochip0", "gpio character device chip")
		pin        = flag.Int("pin", 23, "BCM pin number")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] on|off|toggle|read\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	g, err := hardware.New(hardware.Config{
		Driver:     hardware.Driver(*driver),
		PigpioAddr: *pigpioAddr,
		Chip:       *chip,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer g.Close()

	level, err := run(g, *pin, flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("GPIO%d %s\n", *pin, level)
}

func run(g gpio.GPIO, pin int, action string) (gpio.Level, error) {
	switch action {
	case "read":
		return g.Read(pin)
	case "on", "off":
		level := gpio.Level(action == "on")
		if err := g.SetOutput(pin); err != nil {
			return level, err
		}
		return level, g.Write(pin, level)
	case "toggle":
		if err := g.SetOutput(pin); err != nil {
			return gpio.Low, err
		}
		current, err := g.Read(pin)
		if err != nil {
			return current, err
		}
		return !current, g.Write(pin, !current)
	}

	return gpio.Low, fmt.Errorf("unknown action %q", action)
}
