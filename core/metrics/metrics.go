package metrics

import (
	"time"

	"github.com/kilianp07/battsim/core/dispatch"
)

// StepRecord is the state of the system after one dispatched hour.
// Energies are in kWh; BatteryEnergy is positive on discharge and
// GridEnergy positive on export.
type StepRecord struct {
	RunID string        `json:"run_id"`
	Hour  int           `json:"hour"`
	Time  time.Time     `json:"time"`
	PV    float64       `json:"pv_kwh"`
	Load  float64       `json:"load_kwh"`
	Mode  dispatch.Mode `json:"mode"`
	// Profile is the 0-based dispatch profile in force.
	Profile       int     `json:"profile"`
	Requested     float64 `json:"requested_kwh"`
	BatteryEnergy float64 `json:"battery_kwh"`
	GridEnergy    float64 `json:"grid_kwh"`
	PVToLoad      float64 `json:"pv_to_load_kwh"`
	BatteryToLoad float64 `json:"battery_to_load_kwh"`
	GridToLoad    float64 `json:"grid_to_load_kwh"`

	SOC          float64 `json:"soc"`
	DOD          float64 `json:"dod"`
	Current      float64 `json:"current_a"`
	CellVoltage  float64 `json:"cell_voltage"`
	BankVoltage  float64 `json:"bank_voltage"`
	TemperatureK float64 `json:"temperature_k"`
	Cycles       int     `json:"cycles"`
	Damage       float64 `json:"damage_pct"`
}

// StepSink records simulation steps.
type StepSink interface {
	RecordStep(rec StepRecord) error
}

// SummaryRecorder is implemented by sinks that also want the run totals.
type SummaryRecorder interface {
	RecordSummary(s Summary) error
}

// NopSink implements StepSink and SummaryRecorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordStep(StepRecord) error  { return nil }
func (NopSink) RecordSummary(Summary) error { return nil }
