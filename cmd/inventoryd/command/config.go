package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	AutosaveInterval string        `json:"autosave_interval"`
	Storage          StorageConfig `json:"storage"`
	Nats             NatsConfig    `json:"nats"`
	Session          SessionConfig `json:"session"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.AutosaveInterval != "" {
		d, err := time.ParseDuration(c.AutosaveInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing autosave_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("autosave_interval must be at least 1 second"))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Session.validate())

	return el.Err()
}

// autosaveInterval returns the configured interval, or zero for the driver
// default.
func (c *Config) autosaveInterval() time.Duration {
	d, err := time.ParseDuration(c.AutosaveInterval)
	if err != nil {
		return 0
	}
	return d
}
