package dispatch

import "fmt"

// Config is the dispatch section of a run configuration.
type Config struct {
	// Schedule holds twelve rows of 24 profile digits, January first.
	Schedule []string  `json:"schedule"`
	Profiles []Profile `json:"profiles"`
}

// SetDefaults fills an empty configuration with a single profile that may
// charge from the array and discharge to the load at every hour.
func (c *Config) SetDefaults() {
	if len(c.Profiles) == 0 {
		c.Profiles = []Profile{{Charge: true, Discharge: true}}
	}
	if len(c.Schedule) == 0 {
		c.Schedule = Uniform(1).Rows()
	}
}

// Build parses and validates the schedule.
func (c Config) Build() (Schedule, error) {
	s, err := ParseSchedule(c.Schedule)
	if err != nil {
		return s, err
	}
	if err := s.Validate(len(c.Profiles)); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks the configuration can build a controller.
func (c Config) Validate() error {
	if _, err := c.Build(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// NewControllerFromConfig builds a controller for bank from cfg.
func NewControllerFromConfig(cfg Config, bank Bank, dt float64) (*Controller, error) {
	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return NewController(bank, dt, s, cfg.Profiles)
}
