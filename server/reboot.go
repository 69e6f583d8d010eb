package server

import (
	"context"
	"fmt"
	"os/exec"
)

// Command returns a reboot function that runs name with args and waits for it
// to exit.
func Command(name string, args ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s failed: %w (output: %q)", name, err, out)
		}

		return nil
	}
}
