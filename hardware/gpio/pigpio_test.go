package gpio

import (
	"encoding/binary"
	"errors"
	"net"
	"testing"
)

// fakeDaemon answers pigpio commands on the server end of a pipe, keeping pin
// levels and modes in maps.
type fakeDaemon struct {
	levels map[uint32]uint32
	modes  map[uint32]uint32
}

func (d *fakeDaemon) serve(conn net.Conn) {
	defer conn.Close()

	for {
		var req cmd
		if err := binary.Read(conn, binary.LittleEndian, &req); err != nil {
			return
		}

		res := req
		res.P3 = 0
		switch req.Cmd {
		case modes:
			d.modes[req.P1] = req.P2
		case write:
			d.levels[req.P1] = req.P2
		case read:
			res.P3 = d.levels[req.P1]
		default:
			bad := int32(-41)
			res.P3 = uint32(bad)
		}

		if err := binary.Write(conn, binary.LittleEndian, res); err != nil {
			return
		}
	}
}

func newPigpioPair(t *testing.T) (*Pigpio, *fakeDaemon) {
	client, server := net.Pipe()
	d := &fakeDaemon{levels: map[uint32]uint32{}, modes: map[uint32]uint32{}}
	go d.serve(server)

	p := NewPigpio(client)
	t.Cleanup(func() { p.Close() })
	return p, d
}

func TestPigpioWriteRead(t *testing.T) {
	p, d := newPigpioPair(t)

	if err := p.SetOutput(23); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	if err := p.Write(23, High); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lvl, err := p.Read(23)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if lvl != High {
		t.Errorf("Read(23) = %v, want on", lvl)
	}

	if err := p.Write(23, Low); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if lvl, _ := p.Read(23); lvl != Low {
		t.Errorf("Read(23) = %v, want off", lvl)
	}

	if d.modes[23] != modeOutput {
		t.Errorf("mode of pin 23 = %d, want %d", d.modes[23], modeOutput)
	}
}

func TestPigpioErrorCode(t *testing.T) {
	p, _ := newPigpioPair(t)

	_, err := p.command(99, 1, 0)

	var perr ErrPigpio
	if !errors.As(err, &perr) {
		t.Fatalf("command error = %v, want ErrPigpio", err)
	}
	if perr.Code != -41 {
		t.Errorf("code = %d, want -41", perr.Code)
	}
}

func TestPigpioClosed(t *testing.T) {
	client, server := net.Pipe()
	server.Close()

	p := NewPigpio(client)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Write(1, High); err == nil {
		t.Error("expected an error writing to a closed connection")
	}
	if err := p.Close(); err == nil {
		t.Error("expected an error closing twice")
	}
}
