package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/gpiodash/gpiodash/store"
)

// fakeRedis speaks just enough RESP to accept a connection handshake and
// PUBLISH commands, which it sends on published.
type fakeRedis struct {
	ln        net.Listener
	published chan []string
}

func newFakeRedis(t *testing.T) *fakeRedis {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeRedis{ln: ln, published: make(chan []string, 10)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()

	return f
}

func (f *fakeRedis) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}

		var reply string
		switch strings.ToUpper(args[0]) {
		case "HELLO":
			reply = "-ERR unknown command 'HELLO'\r\n"
		case "PING":
			reply = "+PONG\r\n"
		case "PUBLISH":
			f.published <- args
			reply = ":1\r\n"
		default:
			reply = "+OK\r\n"
		}

		if _, err := io.WriteString(conn, reply); err != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return nil, fmt.Errorf("unexpected %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[1:]))
	if err != nil {
		return nil, err
	}

	args := make([]string, n)
	for i := range args {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(line[1:]))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args[i] = string(buf[:size])
	}

	return args, nil
}

func TestRedisNotify(t *testing.T) {
	f := newFakeRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := DialRedis(ctx, f.ln.Addr().String(), "gpiodash/pins")
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	defer r.Close()

	e := store.Event{ID: 7, Pin: 24, Name: "GPIO24", Action: "on", Level: gpio.High, Message: "Turned GPIO24 on."}
	if err := r.Notify(ctx, e); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	select {
	case args := <-f.published:
		if len(args) != 3 || args[1] != "gpiodash/pins" {
			t.Fatalf("got PUBLISH %q", args)
		}
		var got store.Event
		if err := json.Unmarshal([]byte(args[2]), &got); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if got.ID != 7 || got.Pin != 24 || got.Level != gpio.High || got.Message != e.Message {
			t.Errorf("got %+v, want %+v", got, e)
		}
	case <-ctx.Done():
		t.Fatal("nothing published")
	}
}

func TestDialRedisUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := DialRedis(ctx, addr, "x"); err == nil {
		t.Error("expected an error")
	}
}
