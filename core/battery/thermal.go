package battery

import (
	"fmt"

	"github.com/kilianp07/battsim/core/fit"
)

const (
	kelvinOffset   = 273.15
	secondsPerHour = 3600.0
)

// RetentionPoint is one row of the capacity versus temperature curve.
type RetentionPoint struct {
	TempC   float64 `json:"temp_c"`
	Percent float64 `json:"percent"`
}

// ThermalParams holds the lumped thermal properties of one battery.
type ThermalParams struct {
	Mass   float64 `json:"mass"`   // kg
	Length float64 `json:"length"` // m
	Width  float64 `json:"width"`  // m
	Height float64 `json:"height"` // m
	Cp     float64 `json:"cp"`     // J/kg.K
	H      float64 `json:"h"`      // W/m2.K
	// RoomTempC is the ambient temperature in Celsius.
	RoomTempC float64 `json:"room_temp_c"`
	// R is the internal resistance heating the cell (ohm).
	R              float64          `json:"r"`
	CapacityVsTemp []RetentionPoint `json:"capacity_vs_temp"`
}

// Thermal integrates a single node heat balance:
//
//	dT/dt = (h*A*(Troom - T) + I^2*R) / (m*Cp)
//
// with every surface exposed to ambient air.
type Thermal struct {
	mass  float64
	area  float64
	cp    float64
	h     float64
	troom float64
	r     float64
	t     float64
	// retention maps Kelvin to capacity fraction.
	retention *fit.Table
}

// NewThermal starts the battery at room temperature.
func NewThermal(p ThermalParams) (*Thermal, error) {
	xs := make([]float64, len(p.CapacityVsTemp))
	ys := make([]float64, len(p.CapacityVsTemp))
	for i, pt := range p.CapacityVsTemp {
		xs[i] = pt.TempC + kelvinOffset
		ys[i] = pt.Percent * 0.01
	}
	tab, err := fit.NewTable(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("capacity vs temperature: %w", err)
	}
	troom := p.RoomTempC + kelvinOffset
	return &Thermal{
		mass:      p.Mass,
		area:      2 * (p.Length*p.Width + p.Length*p.Height + p.Width*p.Height),
		cp:        p.Cp,
		h:         p.H,
		troom:     troom,
		r:         p.R,
		t:         troom,
		retention: tab,
	}, nil
}

// Update advances the temperature over dt hours at current i using the
// trapezoidal rule, solved in closed form for the end of step value.
func (m *Thermal) Update(i, dt float64) {
	m.t = m.Trapezoidal(i, dt*secondsPerHour)
}

// rate is dT/dt in K/s at temperature t.
func (m *Thermal) rate(t, i float64) float64 {
	return (m.h*(m.troom-t)*m.area + i*i*m.r) / (m.mass * m.cp)
}

// Trapezoidal returns the end of step temperature after dt seconds without
// changing the model.
func (m *Thermal) Trapezoidal(i, dt float64) float64 {
	b := 1 / (m.mass * m.cp)
	c := m.h * m.area
	d := i * i * m.r
	return (m.t + 0.5*dt*(m.rate(m.t, i)+b*(c*m.troom+d))) / (1 + 0.5*dt*b*c)
}

// RK4 returns the end of step temperature after dt seconds using one
// classic Runge-Kutta step, without changing the model.
func (m *Thermal) RK4(i, dt float64) float64 {
	k1 := dt * m.rate(m.t, i)
	k2 := dt * m.rate(m.t+k1/2, i)
	k3 := dt * m.rate(m.t+k2/2, i)
	k4 := dt * m.rate(m.t+k3, i)
	return m.t + (k1+k4)/6 + (k2+k3)/3
}

// CapacityPercent is the capacity retained at the current temperature.
func (m *Thermal) CapacityPercent() float64 {
	return 100 * m.retention.At(m.t)
}

// Temperature returns the battery temperature in Kelvin.
func (m *Thermal) Temperature() float64 { return m.t }

// RoomTemperature returns the ambient temperature in Kelvin.
func (m *Thermal) RoomTemperature() float64 { return m.troom }

// SurfaceArea returns the exposed area in m2.
func (m *Thermal) SurfaceArea() float64 { return m.area }
