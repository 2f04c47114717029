package dispatch

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSchedule(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = strings.Repeat("1", 12) + strings.Repeat("2", 12)
	}
	rows[6] = "111111 222222 333333 444444"
	s, err := ParseSchedule(rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s[0][11] != 1 || s[0][12] != 2 || s[6][23] != 4 {
		t.Fatalf("unexpected entries %v %v %v", s[0][11], s[0][12], s[6][23])
	}
	if err := s.Validate(4); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := s.Rows()[6]; got != "111111222222333333444444" {
		t.Fatalf("rows round trip: %s", got)
	}
}

func TestParseScheduleErrors(t *testing.T) {
	good := strings.Repeat("1", 24)
	tests := map[string][]string{
		"too few rows":   {good},
		"short row":      append(repeatRow(good, 11), "123"),
		"not a digit":    append(repeatRow(good, 11), strings.Repeat("1", 23)+"x"),
		"too many hours": append(repeatRow(good, 11), good+"1"),
	}
	for name, rows := range tests {
		if _, err := ParseSchedule(rows); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("%s: expected ErrInvalidSchedule, got %v", name, err)
		}
	}
}

func repeatRow(row string, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = row
	}
	return rows
}

func TestScheduleValidateProfileRange(t *testing.T) {
	for _, p := range []int{0, 5, 9} {
		s := Uniform(1)
		s[3][4] = p
		if err := s.Validate(4); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("profile %d: expected ErrInvalidProfile, got %v", p, err)
		}
	}
	if err := Uniform(1).Validate(5); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("more than four profiles should be rejected")
	}
}

func TestScheduleProfileIndex(t *testing.T) {
	s := Uniform(1)
	s[11][23] = 3
	if got := s.ProfileIndex(8759); got != 2 {
		t.Fatalf("last hour of the year: %d", got)
	}
	if got := s.ProfileIndex(8760 + 8759); got != 2 {
		t.Fatalf("wrapped hour: %d", got)
	}
	if got := s.ProfileIndex(0); got != 0 {
		t.Fatalf("first hour: %d", got)
	}
}

func TestConfigDefaultsAndBuild(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if len(cfg.Profiles) != 1 || !cfg.Profiles[0].Charge || !cfg.Profiles[0].Discharge {
		t.Fatalf("default profiles %+v", cfg.Profiles)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	cfg.Schedule[0] = strings.Repeat("2", 24)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if _, err := NewControllerFromConfig(cfg, &fakeBank{volts: 1}, 1); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestModeString(t *testing.T) {
	if DischargeToMeetLoad.String() != "discharge_to_meet_load" || Mode(7).String() != "mode(7)" {
		t.Fatalf("unexpected mode names")
	}
	if !ChargeAllFromGrid.Charging() || DischargeToMeetLoad.Charging() || NoAction.Charging() {
		t.Fatalf("charging classification")
	}
}
