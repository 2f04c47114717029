package battery

import (
	"math"
	"testing"
)

func testThermal(h float64) ThermalParams {
	return ThermalParams{
		Mass: 10, Length: 0.5, Width: 0.2, Height: 0.2,
		Cp: 1000, H: h, RoomTempC: 25, R: 0.1,
		CapacityVsTemp: []RetentionPoint{{-10, 60}, {0, 80}, {25, 100}, {40, 100}},
	}
}

func TestThermalStartsAtRoomTemperature(t *testing.T) {
	m, err := NewThermal(testThermal(7.5))
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	if math.Abs(m.Temperature()-298.15) > 1e-12 {
		t.Fatalf("temperature %v", m.Temperature())
	}
	if math.Abs(m.SurfaceArea()-0.48) > 1e-12 {
		t.Fatalf("area %v", m.SurfaceArea())
	}
	if m.CapacityPercent() != 100 {
		t.Fatalf("capacity percent %v", m.CapacityPercent())
	}
}

func TestThermalNoConvectionHeatsMonotonically(t *testing.T) {
	m, err := NewThermal(testThermal(0))
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	prev := m.Temperature()
	for step := 0; step < 10; step++ {
		m.Update(10, 1)
		if m.Temperature() <= prev {
			t.Fatalf("step %d: temperature %v did not rise from %v", step, m.Temperature(), prev)
		}
		// I^2 R dt / (m Cp) = 100 * 0.1 * 3600 / 10000
		if d := m.Temperature() - prev; math.Abs(d-3.6) > 1e-9 {
			t.Fatalf("step %d: rise %v, want 3.6", step, d)
		}
		prev = m.Temperature()
	}
}

func TestThermalIdleStaysAtRoom(t *testing.T) {
	m, err := NewThermal(testThermal(7.5))
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	m.Update(0, 1)
	if math.Abs(m.Temperature()-m.RoomTemperature()) > 1e-9 {
		t.Fatalf("temperature drifted to %v", m.Temperature())
	}
}

func TestThermalCoolsTowardRoom(t *testing.T) {
	m, err := NewThermal(testThermal(7.5))
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	m.Update(50, 1)
	hot := m.Temperature()
	if hot <= m.RoomTemperature() {
		t.Fatalf("expected heating, got %v", hot)
	}
	m.Update(0, 1)
	if m.Temperature() >= hot || m.Temperature() < m.RoomTemperature() {
		t.Fatalf("expected cooling toward room, got %v", m.Temperature())
	}
}

func TestThermalRK4AgreesWithTrapezoidal(t *testing.T) {
	m, err := NewThermal(testThermal(7.5))
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	// Short step: both integrators should agree closely.
	a := m.RK4(20, 60)
	b := m.Trapezoidal(20, 60)
	if math.Abs(a-b) > 1e-3 {
		t.Fatalf("rk4 %v trapezoidal %v", a, b)
	}
	if m.Temperature() != m.RoomTemperature() {
		t.Fatalf("predictions must not mutate the model")
	}
}

func TestThermalCapacityPercentFollowsTable(t *testing.T) {
	p := testThermal(7.5)
	p.RoomTempC = -5
	m, err := NewThermal(p)
	if err != nil {
		t.Fatalf("new thermal: %v", err)
	}
	if math.Abs(m.CapacityPercent()-70) > 1e-9 {
		t.Fatalf("capacity percent %v", m.CapacityPercent())
	}
	p.RoomTempC = -40
	m, _ = NewThermal(p)
	if math.Abs(m.CapacityPercent()-60) > 1e-9 {
		t.Fatalf("clamped capacity percent %v", m.CapacityPercent())
	}
}

func TestThermalRejectsEmptyTable(t *testing.T) {
	p := testThermal(1)
	p.CapacityVsTemp = nil
	if _, err := NewThermal(p); err == nil {
		t.Fatalf("expected error")
	}
}
