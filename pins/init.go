package pins

import (
	"fmt"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/sirupsen/logrus"
)

// Initialize configures every registered pin as an output and drives it to
// its default level. It stops at the first failure.
func Initialize(g gpio.GPIO, r *Registry, logger logrus.FieldLogger) error {
	for _, p := range r.Pins() {
		if err := g.SetOutput(p.Number); err != nil {
			return fmt.Errorf("unable to configure pin %d (%s): %w", p.Number, p.Name, err)
		}

		if err := g.Write(p.Number, p.Default); err != nil {
			return fmt.Errorf("unable to set pin %d (%s) %s: %w", p.Number, p.Name, p.Default, err)
		}

		p.SetState(p.Default)

		logger.WithFields(logrus.Fields{
			"pin":   p.Number,
			"name":  p.Name,
			"state": p.Default,
		}).Debug("pin initialised")
	}

	return nil
}
