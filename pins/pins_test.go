package pins

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestParse(t *testing.T) {
	table := "pin,name,state\n17,Lamp,on\n27,Fan,OFF\n22,Pump,On\n5,Heater,maybe\n"

	r, err := Parse(strings.NewReader(table))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []struct {
		number int
		name   string
		level  gpio.Level
	}{
		{5, "Heater", gpio.Low},
		{17, "Lamp", gpio.High},
		{22, "Pump", gpio.High},
		{27, "Fan", gpio.Low},
	}

	got := r.Pins()
	if len(got) != len(want) {
		t.Fatalf("got %d pins, want %d", len(got), len(want))
	}
	for i, w := range want {
		p := got[i]
		if p.Number != w.number || p.Name != w.name || p.Default != w.level {
			t.Errorf("pin %d = {%d %q %v}, want {%d %q %v}", i, p.Number, p.Name, p.Default, w.number, w.name, w.level)
		}
		if p.State() != w.level {
			t.Errorf("pin %d cached state = %v, want %v", w.number, p.State(), w.level)
		}
	}
}

func TestParseColumnOrder(t *testing.T) {
	r, err := Parse(strings.NewReader("state,extra,name,pin\non,x,Door, 4\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p, err := r.Lookup(4)
	if err != nil {
		t.Fatalf("Lookup(4): %v", err)
	}
	if p.Name != "Door" || p.Default != gpio.High {
		t.Errorf("got {%q %v}, want {Door on}", p.Name, p.Default)
	}
}

func TestParseDuplicateLastWins(t *testing.T) {
	r, err := Parse(strings.NewReader("pin,name,state\n7,First,on\n7,Second,off\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	p, _ := r.Lookup(7)
	if p.Name != "Second" || p.Default != gpio.Low {
		t.Errorf("got {%q %v}, want {Second off}", p.Name, p.Default)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "pin,name\n1,a\n",
		"bad pin":        "pin,name,state\nseven,a,on\n",
		"ragged row":     "pin,name,state\n1,a\n",
	}

	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(table)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "pin_table.csv"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := r.Pins()
	if len(got) != 2 {
		t.Fatalf("got %d pins, want 2", len(got))
	}
	for i, n := range []int{23, 24} {
		if got[i].Number != n || got[i].Name != fmt.Sprintf("GPIO%d", n) || got[i].Default != gpio.Low {
			t.Errorf("pin %d = {%d %q %v}", i, got[i].Number, got[i].Name, got[i].Default)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pin_table.csv")
	if err := os.WriteFile(path, []byte("pin,name,state\n18,Relay,on\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := r.Lookup(18)
	if err != nil {
		t.Fatalf("Lookup(18): %v", err)
	}
	if p.Name != "Relay" || p.Default != gpio.High {
		t.Errorf("got {%q %v}, want {Relay on}", p.Name, p.Default)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pin_table.csv")
	if err := os.WriteFile(path, []byte("pin,name,state\nx,Relay,on\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Default().Lookup(7); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("Lookup(7) error = %v, want ErrUnknownPin", err)
	}
}

func TestInitialize(t *testing.T) {
	r := NewRegistry(
		&Pin{Number: 23, Name: "GPIO23", Default: gpio.Low},
		&Pin{Number: 24, Name: "GPIO24", Default: gpio.High},
	)
	g := gpio.NewMemory()
	g.Set(23, gpio.High)

	logger, _ := test.NewNullLogger()
	if err := Initialize(g, r, logger); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	for _, p := range r.Pins() {
		if n := g.OutputCount(p.Number); n != 1 {
			t.Errorf("pin %d configured as output %d times, want 1", p.Number, n)
		}
		if lvl := g.Level(p.Number); lvl != p.Default {
			t.Errorf("pin %d level = %v, want %v", p.Number, lvl, p.Default)
		}
	}
}

func TestInitializeFailure(t *testing.T) {
	g := gpio.NewMemory()
	boom := errors.New("boom")
	g.Fail(24, boom)

	if err := Initialize(g, Default(), logrus.New()); !errors.Is(err, boom) {
		t.Errorf("Initialize error = %v, want %v", err, boom)
	}
}
