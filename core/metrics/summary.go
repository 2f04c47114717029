package metrics

import (
	"time"

	"github.com/kilianp07/battsim/core/dispatch"
)

// Summary aggregates a run. Energies are kWh totals; Charged, Discharged,
// Imported and Exported are positive.
type Summary struct {
	RunID string    `json:"run_id"`
	Steps int       `json:"steps"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	PV            float64 `json:"pv_kwh"`
	Load          float64 `json:"load_kwh"`
	Charged       float64 `json:"charged_kwh"`
	Discharged    float64 `json:"discharged_kwh"`
	Imported      float64 `json:"imported_kwh"`
	Exported      float64 `json:"exported_kwh"`
	PVToLoad      float64 `json:"pv_to_load_kwh"`
	BatteryToLoad float64 `json:"battery_to_load_kwh"`
	GridToLoad    float64 `json:"grid_to_load_kwh"`

	// ModeCounts counts hours per dispatch mode name.
	ModeCounts map[string]int `json:"mode_counts"`

	MinSOC   float64 `json:"min_soc"`
	FinalSOC float64 `json:"final_soc"`
	MaxTempK float64 `json:"max_temperature_k"`
	Cycles   int     `json:"cycles"`
	Damage   float64 `json:"damage_pct"`
}

// NewSummary returns an empty summary for a run.
func NewSummary(runID string) Summary {
	return Summary{RunID: runID, ModeCounts: make(map[string]int, len(dispatch.Modes)), MinSOC: 100}
}

// Add folds one step into the totals.
func (s *Summary) Add(r StepRecord) {
	if s.Steps == 0 {
		s.Start = r.Time
	}
	s.Steps++
	s.End = r.Time

	s.PV += r.PV
	s.Load += r.Load
	if r.BatteryEnergy > 0 {
		s.Discharged += r.BatteryEnergy
	} else {
		s.Charged -= r.BatteryEnergy
	}
	if r.GridEnergy > 0 {
		s.Exported += r.GridEnergy
	} else {
		s.Imported -= r.GridEnergy
	}
	s.PVToLoad += r.PVToLoad
	s.BatteryToLoad += r.BatteryToLoad
	s.GridToLoad += r.GridToLoad

	if s.ModeCounts == nil {
		s.ModeCounts = make(map[string]int, len(dispatch.Modes))
	}
	s.ModeCounts[r.Mode.String()]++

	if r.SOC < s.MinSOC {
		s.MinSOC = r.SOC
	}
	if r.TemperatureK > s.MaxTempK {
		s.MaxTempK = r.TemperatureK
	}
	s.FinalSOC = r.SOC
	s.Cycles = r.Cycles
	s.Damage = r.Damage
}
