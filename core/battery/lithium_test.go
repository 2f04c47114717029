package battery

import (
	"math"
	"testing"

	"github.com/kilianp07/battsim/core/fit"
)

func TestLithiumIonConstantDischargeStaysInBounds(t *testing.T) {
	m := NewLithiumIon(100, 48, nil)
	prev := m.Q0()
	for step := 0; step < 30; step++ {
		m.Update(48*10, 48, 1, 0)
		q := m.Q0()
		if q > prev {
			t.Fatalf("step %d: q0 rose from %v to %v", step, prev, q)
		}
		if q < 0 || q > m.Qmax() {
			t.Fatalf("step %d: q0 %v outside [0,%v]", step, q, m.Qmax())
		}
		if m.DOD() != 100-m.SOC() {
			t.Fatalf("step %d: dod/soc mismatch", step)
		}
		prev = q
	}
	if m.Q0() != 0 || m.SOC() != 0 {
		t.Fatalf("expected empty battery, q0=%v soc=%v", m.Q0(), m.SOC())
	}
}

func TestLithiumIonUnderchargeClampRealizesAvailableCurrent(t *testing.T) {
	m := NewLithiumIon(100, 48, nil)
	m.Update(48*95, 48, 1, 0)
	m.Update(48*20, 48, 1, 0)
	if m.Q0() != 0 {
		t.Fatalf("q0 = %v", m.Q0())
	}
	if math.Abs(m.Current()-5) > 1e-12 {
		t.Fatalf("realized current %v, want 5", m.Current())
	}
	if math.Abs(m.Power()-5*48) > 1e-9 {
		t.Fatalf("realized power %v, want 240", m.Power())
	}
}

func TestLithiumIonOverchargeClampRealizesHeadroom(t *testing.T) {
	m := NewLithiumIon(100, 48, nil)
	m.Update(48*30, 48, 1, 0)
	m.Update(-48*50, 48, 1, 0)
	if m.Q0() != m.Qmax() {
		t.Fatalf("q0 = %v", m.Q0())
	}
	if math.Abs(m.Current()+30) > 1e-12 {
		t.Fatalf("realized current %v, want -30", m.Current())
	}
	if math.Abs(m.Power()+30*48) > 1e-9 {
		t.Fatalf("realized power %v", m.Power())
	}
	if m.SOC() != 100 {
		t.Fatalf("soc %v", m.SOC())
	}
}

func TestLithiumIonCapacityFade(t *testing.T) {
	fade := fit.Polynomial{100, -0.01}
	m := NewLithiumIon(100, 48, fade)
	m.Update(0, 48, 1, 1000)
	if math.Abs(m.Qmax()-90) > 1e-12 {
		t.Fatalf("qmax %v", m.Qmax())
	}
	if m.QmaxI() != m.Qmax() || m.Qmax0() != 100 {
		t.Fatalf("unexpected capacities")
	}
	// The tank was full at the old capacity and is clamped to the new one.
	if m.Q0() != 90 || m.SOC() != 100 {
		t.Fatalf("q0 %v soc %v", m.Q0(), m.SOC())
	}
}

func TestLithiumIonThermalDerating(t *testing.T) {
	m := NewLithiumIon(100, 48, nil)
	m.ApplyThermal(90)
	m.ApplyThermal(90)
	if math.Abs(m.Q0()-81) > 1e-12 {
		t.Fatalf("derating should compound, q0=%v", m.Q0())
	}
	if m.Available() != m.Q0() {
		t.Fatalf("available should equal q0")
	}
}
