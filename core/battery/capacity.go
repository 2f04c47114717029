package battery

// Capacity is implemented by *KiBaM and *LithiumIon only.
type Capacity interface {
	// Update applies power p (W) at terminal voltage v (V) for dt hours.
	// cycles is the cumulative rainflow cycle count.
	Update(p, v, dt float64, cycles int)
	// ApplyThermal scales the stored charge by a retention percentage.
	ApplyThermal(percent float64)

	SOC() float64
	DOD() float64
	// Q0 is the total stored charge.
	Q0() float64
	// Available is the charge that can be drawn right away.
	Available() float64
	Qmax() float64
	QmaxI() float64
	// Current is the realized current of the last update.
	Current() float64
	Voltage() float64
	Power() float64
	// ChargeChanged reports whether the last update reversed the
	// charge/discharge direction.
	ChargeChanged() bool

	capacity()
}

// capacityState is the bookkeeping shared by both capacity models.
type capacityState struct {
	q0  float64
	i   float64
	v   float64
	p   float64
	soc float64
	dod float64

	prevCharging  bool
	chargeChanged bool
}

func newCapacityState(q0, v float64) capacityState {
	return capacityState{q0: q0, v: v, soc: 100}
}

func (s *capacityState) SOC() float64        { return s.soc }
func (s *capacityState) DOD() float64        { return s.dod }
func (s *capacityState) Q0() float64         { return s.q0 }
func (s *capacityState) Current() float64    { return s.i }
func (s *capacityState) Voltage() float64    { return s.v }
func (s *capacityState) Power() float64      { return s.p }
func (s *capacityState) ChargeChanged() bool { return s.chargeChanged }

// trackDirection records a charge/discharge reversal. Idle steps neither
// flag a change nor reset the remembered direction.
func (s *capacityState) trackDirection(current float64) {
	if current == 0 {
		s.chargeChanged = false
		return
	}
	charging := current < 0
	s.chargeChanged = charging != s.prevCharging
	s.prevCharging = charging
}

// setSOC clamps the state of charge to [0,100] and derives DOD from it.
func (s *capacityState) setSOC(soc float64) {
	switch {
	case soc > 100:
		soc = 100
	case soc < 0 || soc != soc:
		soc = 0
	}
	s.soc = soc
	s.dod = 100 - soc
}

// currentFor returns p/v, or zero when the voltage is too small to carry
// any current.
func currentFor(p, v float64) float64 {
	if v < minVoltage && v > -minVoltage {
		return 0
	}
	return p / v
}

// minVoltage is the terminal voltage below which no current is drawn.
const minVoltage = 1e-6
