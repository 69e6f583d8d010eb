//go:build !linux
// +build !linux

package gpio

import "errors"

// ErrUnsupported is returned by drivers that only exist on Linux.
var ErrUnsupported = errors.New("gpio driver is only available on linux")

type Cdev struct{ GPIO }

func OpenCdev(chip string) (*Cdev, error) {
	return nil, ErrUnsupported
}

type Rpio struct{ GPIO }

func OpenRpio() (*Rpio, error) {
	return nil, ErrUnsupported
}
