package pins

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gpiodash/gpiodash/hardware/gpio"
)

// DefaultPath is the pin table file name looked for when none is given.
const DefaultPath = "pin_table.csv"

const (
	columnPin   = "pin"
	columnName  = "name"
	columnState = "state"
)

// Load reads the pin table at path. If the file doesn't exist the default
// two pin registry is returned instead.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open pin table: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("invalid pin table %q: %w", path, err)
	}

	return r, nil
}

// Parse reads a CSV pin table with a header row naming the pin, name and
// state columns. A state of "on" (any case) means the pin defaults to high;
// anything else means low.
func Parse(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	for _, c := range []string{columnPin, columnName, columnState} {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("missing %q column", c)
		}
	}

	var pins []*Pin
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row: %w", err)
		}

		line, _ := reader.FieldPos(0)

		number, err := strconv.Atoi(strings.TrimSpace(record[columns[columnPin]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid pin number: %w", line, err)
		}

		pins = append(pins, &Pin{
			Number:  number,
			Name:    record[columns[columnName]],
			Default: parseState(record[columns[columnState]]),
		})
	}

	return NewRegistry(pins...), nil
}

func parseState(s string) gpio.Level {
	return gpio.Level(strings.EqualFold(strings.TrimSpace(s), "on"))
}
