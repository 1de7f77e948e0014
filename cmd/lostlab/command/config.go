package command

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var travelerNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z ]{0,31}$`)

type Config struct {
	Logging   LoggingConfig    `json:"logging"`
	Storage   StorageConfig    `json:"storage"`
	World     WorldConfig      `json:"world"`
	Traveler  TravelerConfig   `json:"traveler"`
	Listeners []ListenerConfig `json:"listeners"`
	Nats      NatsConfig       `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Logging.Validate())
	el.Add(c.Storage.Validate())
	el.Add(c.World.Validate())
	el.Add(c.Traveler.Validate())

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.Validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.Validate())

	return el.Err()
}

// TravelerConfig fixes the traveler name for every connection. When empty
// each connection is asked for a name.
type TravelerConfig struct {
	Name string `json:"name"`
}

func (c *TravelerConfig) Validate() error {
	if c.Name != "" && !travelerNamePattern.MatchString(c.Name) {
		return fmt.Errorf("traveler name %q must be letters and spaces, up to 32 characters", c.Name)
	}
	return nil
}
