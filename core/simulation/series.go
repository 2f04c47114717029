package simulation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSeries is returned for unreadable or inconsistent input.
var ErrInvalidSeries = errors.New("invalid series")

// Columns names the CSV header fields holding each quantity.
type Columns struct {
	PV   string `json:"pv"`
	Load string `json:"load"`
	// Time is optional; values are RFC 3339 stamps.
	Time string `json:"time"`
}

func (c *Columns) setDefaults() {
	if c.PV == "" {
		c.PV = "pv_kwh"
	}
	if c.Load == "" {
		c.Load = "load_kwh"
	}
}

// Series is an hourly trace of PV production and load, in kWh per step.
// Time is nil when the input carried no time column.
type Series struct {
	Time []time.Time
	PV   []float64
	Load []float64
}

// Len returns the number of steps.
func (s Series) Len() int { return len(s.PV) }

// Truncate keeps the first n steps when n is positive and shorter than the series.
func (s Series) Truncate(n int) Series {
	if n <= 0 || n >= s.Len() {
		return s
	}
	out := Series{PV: s.PV[:n], Load: s.Load[:n]}
	if s.Time != nil {
		out.Time = s.Time[:n]
	}
	return out
}

// LoadSeries reads a CSV file.
func LoadSeries(path string, cols Columns) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()
	return ReadSeries(f, cols)
}

// ReadSeries parses a CSV with a header row. Blank lines and lines
// starting with '#' are skipped.
func ReadSeries(r io.Reader, cols Columns) (Series, error) {
	cols.setDefaults()
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Series{}, fmt.Errorf("%w: header: %v", ErrInvalidSeries, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	pvIdx, ok := index[cols.PV]
	if !ok {
		return Series{}, fmt.Errorf("%w: missing column %q", ErrInvalidSeries, cols.PV)
	}
	loadIdx, ok := index[cols.Load]
	if !ok {
		return Series{}, fmt.Errorf("%w: missing column %q", ErrInvalidSeries, cols.Load)
	}
	timeIdx := -1
	if cols.Time != "" {
		if timeIdx, ok = index[cols.Time]; !ok {
			return Series{}, fmt.Errorf("%w: missing column %q", ErrInvalidSeries, cols.Time)
		}
	}

	var s Series
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Series{}, fmt.Errorf("%w: %v", ErrInvalidSeries, err)
		}
		pv, err := parseEnergy(rec[pvIdx])
		if err != nil {
			return Series{}, fmt.Errorf("%w: line %d %s: %v", ErrInvalidSeries, line, cols.PV, err)
		}
		load, err := parseEnergy(rec[loadIdx])
		if err != nil {
			return Series{}, fmt.Errorf("%w: line %d %s: %v", ErrInvalidSeries, line, cols.Load, err)
		}
		s.PV = append(s.PV, pv)
		s.Load = append(s.Load, load)
		if timeIdx >= 0 {
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[timeIdx]))
			if err != nil {
				return Series{}, fmt.Errorf("%w: line %d %s: %v", ErrInvalidSeries, line, cols.Time, err)
			}
			s.Time = append(s.Time, ts)
		}
	}
	if s.Len() == 0 {
		return Series{}, fmt.Errorf("%w: no rows", ErrInvalidSeries)
	}
	return s, nil
}

func parseEnergy(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative energy %v", f)
	}
	return f, nil
}
