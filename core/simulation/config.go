package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/battsim/core/calendar"
)

// ErrInvalidConfig wraps simulation configuration failures.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config is the simulation section of a run configuration.
type Config struct {
	// Input is the CSV file holding the hourly series.
	Input   string  `json:"input"`
	Columns Columns `json:"columns"`
	// Start stamps the first step when the series has no time column
	// (RFC 3339). It also picks the first hour of year.
	Start string `json:"start"`
	// StartHour overrides the hour of year of the first step.
	StartHour int `json:"start_hour"`
	// Hours limits the number of simulated steps; 0 runs the whole series.
	Hours int `json:"hours"`
}

// SetDefaults fills column names and the start time.
func (c *Config) SetDefaults() {
	c.Columns.setDefaults()
	if c.Start == "" {
		c.Start = "2024-01-01T00:00:00Z"
	}
}

// Validate checks the start stamp and counts.
func (c Config) Validate() error {
	if _, err := time.Parse(time.RFC3339, c.Start); err != nil {
		return fmt.Errorf("%w: start %q: %v", ErrInvalidConfig, c.Start, err)
	}
	if c.StartHour < 0 || c.StartHour >= calendar.HoursPerYear {
		return fmt.Errorf("%w: start_hour %d outside 0..%d", ErrInvalidConfig, c.StartHour, calendar.HoursPerYear-1)
	}
	if c.Hours < 0 {
		return fmt.Errorf("%w: hours must not be negative", ErrInvalidConfig)
	}
	if c.Columns.PV == "" || c.Columns.Load == "" {
		return fmt.Errorf("%w: pv and load columns are required", ErrInvalidConfig)
	}
	return nil
}

// StartTime parses Start. Validate must have succeeded.
func (c Config) StartTime() time.Time {
	t, _ := time.Parse(time.RFC3339, c.Start)
	return t
}

// FirstHour is the hour of year of the first step: StartHour when set,
// otherwise the hour of year of Start.
func (c Config) FirstHour() int {
	if c.StartHour != 0 {
		return c.StartHour
	}
	return HourOfYear(c.StartTime())
}

// HourOfYear maps t onto the 8760 hour non-leap year used by dispatch
// schedules. February 29 folds onto February 28.
func HourOfYear(t time.Time) int {
	t = t.UTC()
	day := t.YearDay() - 1
	if isLeap(t.Year()) && day >= 59 {
		day--
	}
	return day*24 + t.Hour()
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
