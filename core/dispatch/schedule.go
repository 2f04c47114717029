package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/battsim/core/calendar"
)

// NumProfiles is the number of permission profiles a schedule can select.
const NumProfiles = 4

var (
	// ErrInvalidSchedule is returned for schedules that are not 12 rows of
	// 24 digits.
	ErrInvalidSchedule = errors.New("invalid dispatch schedule")
	// ErrInvalidProfile is returned when a schedule entry selects a profile
	// outside 1..NumProfiles or one that was not configured.
	ErrInvalidProfile = errors.New("invalid dispatch profile")
)

// Profile holds the battery permissions for the hours that select it.
type Profile struct {
	Charge     bool `json:"charge"`
	Discharge  bool `json:"discharge"`
	GridCharge bool `json:"grid_charge"`
}

// Schedule maps month and hour of day to a 1-based profile number.
type Schedule [12][24]int

// ParseSchedule reads one row per month, each row holding one digit per
// hour of the day. Spaces inside a row are ignored.
func ParseSchedule(rows []string) (Schedule, error) {
	var s Schedule
	if len(rows) != 12 {
		return s, fmt.Errorf("%w: got %d rows, want 12", ErrInvalidSchedule, len(rows))
	}
	for m, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != 24 {
			return s, fmt.Errorf("%w: month %d has %d hours, want 24", ErrInvalidSchedule, m+1, len(row))
		}
		for h, r := range row {
			if r < '0' || r > '9' {
				return s, fmt.Errorf("%w: month %d hour %d: %q is not a digit", ErrInvalidSchedule, m+1, h+1, r)
			}
			s[m][h] = int(r - '0')
		}
	}
	return s, nil
}

// Uniform returns a schedule selecting profile p every hour.
func Uniform(p int) Schedule {
	var s Schedule
	for m := range s {
		for h := range s[m] {
			s[m][h] = p
		}
	}
	return s
}

// Validate checks every entry selects one of n configured profiles.
func (s Schedule) Validate(n int) error {
	if n > NumProfiles {
		return fmt.Errorf("%w: %d profiles configured, at most %d allowed", ErrInvalidProfile, n, NumProfiles)
	}
	for m := range s {
		for h, p := range s[m] {
			if p < 1 || p > n {
				return fmt.Errorf("%w: month %d hour %d selects profile %d of %d", ErrInvalidProfile, m+1, h+1, p, n)
			}
		}
	}
	return nil
}

// ProfileIndex returns the 0-based profile for an hour of the year.
func (s Schedule) ProfileIndex(hourOfYear int) int {
	m, h := calendar.MonthHour(hourOfYear)
	return s[m-1][h-1] - 1
}

// Rows formats the schedule back to its text form.
func (s Schedule) Rows() []string {
	rows := make([]string, len(s))
	var b strings.Builder
	for m := range s {
		b.Reset()
		for _, p := range s[m] {
			b.WriteByte(byte('0' + p))
		}
		rows[m] = b.String()
	}
	return rows
}
