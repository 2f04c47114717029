// Package export writes simulation output in plain file formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
)

// WriteJSON writes the run summary to w as indented JSON.
func WriteJSON(w io.Writer, sum coremetrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

// StepHeader is the CSV header written before the first step.
var StepHeader = []string{
	"time", "hour", "mode", "profile", "pv_kwh", "load_kwh", "battery_kwh", "grid_kwh",
	"pv_to_load_kwh", "battery_to_load_kwh", "grid_to_load_kwh",
	"soc", "current_a", "bank_voltage", "temperature_k", "cycles", "damage_pct",
}

// CSVWriter streams step records as CSV rows.
type CSVWriter struct {
	cw     *csv.Writer
	header bool
}

// NewCSVWriter writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{cw: csv.NewWriter(w)}
}

// Write appends one row, preceded by the header on the first call.
func (c *CSVWriter) Write(r coremetrics.StepRecord) error {
	if !c.header {
		if err := c.cw.Write(StepHeader); err != nil {
			return err
		}
		c.header = true
	}
	return c.cw.Write([]string{
		r.Time.Format(time.RFC3339),
		strconv.Itoa(r.Hour),
		r.Mode.String(),
		strconv.Itoa(r.Profile + 1),
		formatFloat(r.PV),
		formatFloat(r.Load),
		formatFloat(r.BatteryEnergy),
		formatFloat(r.GridEnergy),
		formatFloat(r.PVToLoad),
		formatFloat(r.BatteryToLoad),
		formatFloat(r.GridToLoad),
		formatFloat(r.SOC),
		formatFloat(r.Current),
		formatFloat(r.BankVoltage),
		formatFloat(r.TemperatureK),
		strconv.Itoa(r.Cycles),
		formatFloat(r.Damage),
	})
}

// Flush writes buffered rows.
func (c *CSVWriter) Flush() error {
	c.cw.Flush()
	return c.cw.Error()
}

// WriteCSV writes every record to w.
func WriteCSV(w io.Writer, records []coremetrics.StepRecord) error {
	c := NewCSVWriter(w)
	for _, r := range records {
		if err := c.Write(r); err != nil {
			return err
		}
	}
	return c.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
