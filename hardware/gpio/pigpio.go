package gpio

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
)

// Pigpio is used for controlling GPIO over the pigpio socket interface
type Pigpio struct {
	conn net.Conn

	// the socket carries one request/response pair at a time
	mu sync.Mutex
}

// compile-time check for whether Pigpio satisfies the GPIO interface
var _ GPIO = &Pigpio{}

// DialPigpio dials into the pigpio socket interface (normally running on port 8888)
func DialPigpio(addr string) (*Pigpio, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial into pigpio socket: %w", err)
	}

	return NewPigpio(conn), nil
}

// NewPigpio wraps an already established connection to a pigpio daemon.
func NewPigpio(conn net.Conn) *Pigpio {
	return &Pigpio{conn: conn}
}

// Close closes the underlying pigpio socket interface connection
func (p *Pigpio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return fmt.Errorf("connection is already closed")
	}

	err := p.conn.Close()
	p.conn = nil
	return err
}

// SetOutput sets the mode of a GPIO pin to output.
func (p *Pigpio) SetOutput(pin int) error {
	if _, err := p.command(modes, uint32(pin), modeOutput); err != nil {
		return fmt.Errorf("unable to set pin %d as output: %w", pin, err)
	}

	return nil
}

// Write sets a GPIO pin to LOW or HIGH.
func (p *Pigpio) Write(pin int, level Level) error {
	var rawLevel uint32
	if level {
		rawLevel = 1
	}

	if _, err := p.command(write, uint32(pin), rawLevel); err != nil {
		return fmt.Errorf("unable to write pin %d: %w", pin, err)
	}

	return nil
}

// Read reads the level of a GPIO pin.
func (p *Pigpio) Read(pin int) (Level, error) {
	res, err := p.command(read, uint32(pin), 0)
	if err != nil {
		return Low, fmt.Errorf("unable to read pin %d: %w", pin, err)
	}

	return res != 0, nil
}

type cmd struct {
	Cmd uint32
	P1  uint32
	P2  uint32
	P3  uint32
}

const (
	modes uint32 = 0
	read  uint32 = 3
	write uint32 = 4

	modeOutput uint32 = 1
)

// ErrPigpio is returned when the daemon answers a command with a negative
// status code.
type ErrPigpio struct {
	Cmd  uint32
	Code int32
}

func (err ErrPigpio) Error() string {
	return fmt.Sprintf("pigpio command %d failed with code %d", err.Cmd, err.Code)
}

// command sends a request and returns the result field of the response. The
// daemon echoes the command and parameters and puts the status in P3.
func (p *Pigpio) command(c, p1, p2 uint32) (int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return 0, fmt.Errorf("not connected to pigpio socket interface")
	}

	request := cmd{
		Cmd: c,
		P1:  p1,
		P2:  p2,
	}

	if err := binary.Write(p.conn, binary.LittleEndian, request); err != nil {
		return 0, fmt.Errorf("unable to write request to socket: %w", err)
	}

	var response cmd
	if err := binary.Read(p.conn, binary.LittleEndian, &response); err != nil {
		return 0, fmt.Errorf("unable to read response from socket: %w", err)
	}

	res := int32(response.P3)
	if res < 0 {
		return res, ErrPigpio{Cmd: c, Code: res}
	}

	return res, nil
}
