package battery

import "github.com/kilianp07/battsim/core/fit"

// LithiumIon is a single charge tank whose maximum capacity fades with the
// cumulative cycle count.
type LithiumIon struct {
	capacityState

	qmax0 float64
	qmax  float64
	// fade maps cycles to remaining capacity in percent of qmax0.
	fade fit.Polynomial
}

var _ Capacity = (*LithiumIon)(nil)

// NoFade keeps the full capacity regardless of cycling.
var NoFade = fit.Polynomial{100}

// NewLithiumIon returns a full tank of q Ah. fade gives the retained
// capacity percentage as a function of cycles; nil means NoFade.
func NewLithiumIon(q, v float64, fade fit.Polynomial) *LithiumIon {
	if len(fade) == 0 {
		fade = NoFade
	}
	return &LithiumIon{
		capacityState: newCapacityState(q, v),
		qmax0:         q,
		qmax:          q,
		fade:          fade,
	}
}

// Update implements Capacity. Requests that would overfill or empty the
// tank are cut to what fits, and the stored current and power reflect the
// realized transfer rather than the request.
func (m *LithiumIon) Update(p, v, dt float64, cycles int) {
	prev := m.q0
	m.qmax = m.qmax0 * m.fade.Eval(float64(cycles)) / 100

	m.i = currentFor(p, v)
	m.p = p
	m.v = v
	m.trackDirection(m.i)

	m.q0 -= m.i * dt
	if m.q0 > m.qmax {
		m.i = -(m.qmax - prev) / dt
		m.p = m.i * v
		m.q0 = m.qmax
	}
	if m.q0 < 0 {
		m.i = prev / dt
		m.p = m.i * v
		m.q0 = 0
	}

	if m.qmax > 0 {
		m.setSOC(100 * m.q0 / m.qmax)
	} else {
		m.setSOC(0)
	}
}

// ApplyThermal implements Capacity.
func (m *LithiumIon) ApplyThermal(percent float64) {
	m.q0 *= percent * 0.01
}

func (m *LithiumIon) Available() float64 { return m.q0 }
func (m *LithiumIon) Qmax() float64      { return m.qmax }
func (m *LithiumIon) QmaxI() float64     { return m.qmax }

// Qmax0 returns the nameplate capacity before fade.
func (m *LithiumIon) Qmax0() float64 { return m.qmax0 }

// Fade returns the fitted fade polynomial.
func (m *LithiumIon) Fade() fit.Polynomial { return m.fade }

func (*LithiumIon) capacity() {}
