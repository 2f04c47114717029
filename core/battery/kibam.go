package battery

import "math"

// The rate constant k is searched over kGridSteps values spaced kGridStep
// apart starting at zero.
const (
	kGridSteps = 5000
	kGridStep  = 0.001
)

// KiBaMParams describes the two reference discharge tests a KiBaM is
// fitted from.
type KiBaMParams struct {
	// Q20 is the 20 hour capacity (Ah) at current I20 (A).
	Q20 float64 `json:"q20"`
	I20 float64 `json:"i20"`
	// Q10 is the 10 hour capacity (Ah). It is reported, not fitted.
	Q10 float64 `json:"q10"`
	// T1/Q1 and T2/Q2 are (hours, Ah) pairs from a second discharge test.
	T1 float64 `json:"t1"`
	Q1 float64 `json:"q1"`
	T2 float64 `json:"t2"`
	Q2 float64 `json:"q2"`
}

// KiBaM is the two-reservoir kinetic battery model. Charge sits in an
// available well (q1) and a bound well (q2) that exchange charge at rate k;
// c is the available fraction.
type KiBaM struct {
	capacityState

	params KiBaMParams
	k      float64
	c      float64
	qmax   float64
	qmaxI  float64

	q1 float64
	q2 float64
}

var _ Capacity = (*KiBaM)(nil)

// NewKiBaM fits k and c from the reference tests and starts fully charged
// at the 20 hour capacity. v is the initial terminal voltage.
func NewKiBaM(p KiBaMParams, v float64) *KiBaM {
	m := &KiBaM{capacityState: newCapacityState(p.Q20, v), params: p}
	m.k, m.c = fitKC(p)
	m.qmax = qmaxFromQ20(p.Q20, m.k, m.c)
	m.qmaxI = m.qmaxAt(p.Q20 / p.I20)
	m.q1 = m.q0 * m.c
	m.q2 = m.q0 - m.q1
	return m
}

// estimateC solves the KiBaM capacity ratio F = q(t1)/q(t2) for c at a
// given rate constant k.
func estimateC(f, t1, t2, k float64) float64 {
	e1 := 1 - math.Exp(-k*t1)
	e2 := 1 - math.Exp(-k*t2)
	num := f*e1*t2 - e2*t1
	den := f*e1*t2 - e2*t1 - k*f*t1*t2 + k*t1*t2
	return num / den
}

// fitKC runs the grid search for k. Each k yields two independent c
// estimates, one per test ratio; the k where they agree best wins and c is
// their mean. k = 0 is degenerate (0/0) and never selected.
func fitKC(p KiBaMParams) (k, c float64) {
	f1 := p.Q1 / p.Q20
	f2 := p.Q1 / p.Q2
	best := 10000.0
	for i := 0; i < kGridSteps; i++ {
		kg := float64(i) * kGridStep
		c1 := estimateC(f1, p.T1, 20, kg)
		c2 := estimateC(f2, p.T1, p.T2, kg)
		if r := math.Abs(c1 - c2); r < best {
			best = r
			k = kg
			c = 0.5 * (c1 + c2)
		}
	}
	return k, c
}

func qmaxFromQ20(q20, k, c float64) float64 {
	num := q20 * ((1-math.Exp(-k*20))*(1-c) + k*c*20)
	return num / (k * c * 20)
}

// qmaxAt is the capacity delivered by a constant discharge lasting t hours.
func (m *KiBaM) qmaxAt(t float64) float64 {
	k, c := m.k, m.c
	return m.qmax * k * c * t / (1 - math.Exp(-k*t) + c*(k*t-1+math.Exp(-k*t)))
}

func (m *KiBaM) nextQ1(dt, i float64) float64 {
	k, c := m.k, m.c
	e := math.Exp(-k * dt)
	return m.q1*e + (m.q0*k*c-i)*(1-e)/k - i*c*(k*dt-1+e)/k
}

func (m *KiBaM) nextQ2(dt, i float64) float64 {
	k, c := m.k, m.c
	e := math.Exp(-k * dt)
	return m.q2*e + m.q0*(1-c)*(1-e) - i*(1-c)*(k*dt-1+e)/k
}

// maxDischarge is the largest current the available well can supply over dt.
func (m *KiBaM) maxDischarge(dt float64) float64 {
	k, c := m.k, m.c
	e := math.Exp(-k * dt)
	num := k*m.q1*e + m.q0*k*c*(1-e)
	den := 1 - e + c*(k*dt-1+e)
	return num / den
}

// maxCharge is the (negative) current that fills the available well over dt.
func (m *KiBaM) maxCharge(dt float64) float64 {
	k, c := m.k, m.c
	e := math.Exp(-k * dt)
	num := -k*c*m.qmax + k*m.q1*e + m.q0*k*c*(1-e)
	den := 1 - e + c*(k*dt-1+e)
	return num / den
}

// Update implements Capacity. The requested current is clamped to the
// wells' limits before the reservoirs are advanced.
func (m *KiBaM) Update(p, v, dt float64, _ int) {
	i := currentFor(p, v)
	switch {
	case i > 0:
		i = math.Min(i, m.maxDischarge(dt))
	case i < 0:
		i = -math.Min(-i, math.Abs(m.maxCharge(dt)))
	}
	m.trackDirection(i)

	q1 := m.nextQ1(dt, i)
	q2 := m.nextQ2(dt, i)

	if i != 0 {
		m.qmaxI = m.qmaxAt(math.Abs(m.qmaxI / i))
	}
	m.setSOC(100 * (q1 + q2) / m.qmax)

	m.q1 = q1
	m.q2 = q2
	m.q0 = q1 + q2
	m.i = i
	m.v = v
	m.p = p
}

// ApplyThermal implements Capacity. The derating compounds step to step.
func (m *KiBaM) ApplyThermal(percent float64) {
	f := percent * 0.01
	m.q0 *= f
	m.q1 *= f
	m.q2 *= f
}

func (m *KiBaM) Available() float64 { return m.q1 }
func (m *KiBaM) Bound() float64     { return m.q2 }
func (m *KiBaM) Qmax() float64      { return m.qmax }
func (m *KiBaM) QmaxI() float64     { return m.qmaxI }

// K returns the fitted rate constant (1/h).
func (m *KiBaM) K() float64 { return m.k }

// C returns the fitted available-charge fraction.
func (m *KiBaM) C() float64 { return m.c }

// Params returns the reference tests the model was fitted from.
func (m *KiBaM) Params() KiBaMParams { return m.params }

func (*KiBaM) capacity() {}
