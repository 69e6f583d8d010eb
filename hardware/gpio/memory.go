package gpio

import (
	"fmt"
	"sync"
)

// Memory is a GPIO driver that keeps pin levels in memory. It is used when
// running the dashboard on a machine without GPIO hardware and as a fake in
// tests.
type Memory struct {
	mu      sync.Mutex
	levels  map[int]Level
	outputs map[int]int
	writes  int
	fail    map[int]error
}

var _ GPIO = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		levels:  make(map[int]Level),
		outputs: make(map[int]int),
		fail:    make(map[int]error),
	}
}

// Fail makes every subsequent operation on pin return err. A nil err clears
// the failure.
func (m *Memory) Fail(pin int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.fail, pin)
		return
	}
	m.fail[pin] = err
}

// Set changes a pin's level behind the back of the caller, as external
// hardware would.
func (m *Memory) Set(pin int, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.levels[pin] = level
}

// Level returns a pin's level without going through Read.
func (m *Memory) Level(pin int) Level {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.levels[pin]
}

// OutputCount returns how many times SetOutput was called for pin.
func (m *Memory) OutputCount(pin int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.outputs[pin]
}

// Writes returns the total number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}

func (m *Memory) SetOutput(pin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail[pin]; err != nil {
		return fmt.Errorf("unable to set pin %d as output: %w", pin, err)
	}
	m.outputs[pin]++
	return nil
}

func (m *Memory) Write(pin int, level Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail[pin]; err != nil {
		return fmt.Errorf("unable to write pin %d: %w", pin, err)
	}
	m.levels[pin] = level
	m.writes++
	return nil
}

func (m *Memory) Read(pin int) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail[pin]; err != nil {
		return Low, fmt.Errorf("unable to read pin %d: %w", pin, err)
	}
	return m.levels[pin], nil
}

func (m *Memory) Close() error {
	return nil
}
