package battery

// Battery owns one of each sub-model and advances them together.
type Battery struct {
	capacity Capacity
	voltage  Voltage
	thermal  *Thermal
	lifetime *Lifetime
	// dt is the timestep in hours.
	dt        float64
	firstStep bool
}

// New assembles a Battery stepping dt hours at a time.
func New(c Capacity, v Voltage, t *Thermal, l *Lifetime, dt float64) *Battery {
	return &Battery{
		capacity:  c,
		voltage:   v,
		thermal:   t,
		lifetime:  l,
		dt:        dt,
		firstStep: true,
	}
}

// Run applies power p (W, positive discharges) for one timestep.
//
// The depth of discharge reached at the end of the previous step is handed
// to the lifetime model when that step reversed direction, and on the very
// first step. The sub-models then update in a fixed order: temperature from
// the current implied by p, capacity (derated by the new temperature),
// voltage from the updated charge.
func (b *Battery) Run(p float64) {
	lastDOD := b.capacity.DOD()
	if b.capacity.ChargeChanged() || b.firstStep {
		b.lifetime.Rainflow(lastDOD)
		b.firstStep = false
	}

	v := b.voltage.BatteryVoltage()
	b.thermal.Update(currentFor(p, v), b.dt)
	b.capacity.Update(p, v, b.dt, b.lifetime.Cycles())
	b.capacity.ApplyThermal(b.thermal.CapacityPercent())
	b.voltage.Update(b.capacity, b.dt)
}

// Finish closes the cycle count. Call it once after the last step.
func (b *Battery) Finish() { b.lifetime.Finish() }

// ChargeNeededToFill is the charge (Ah) missing from a full battery. It
// uses qmax rather than the rate dependent qmaxI.
func (b *Battery) ChargeNeededToFill() float64 {
	if need := b.capacity.Qmax() - b.capacity.Q0(); need > 0 {
		return need
	}
	return 0
}

// CurrentCharge is the charge (Ah) available right now.
func (b *Battery) CurrentCharge() float64 { return b.capacity.Available() }

func (b *Battery) CellVoltage() float64    { return b.voltage.CellVoltage() }
func (b *Battery) BatteryVoltage() float64 { return b.voltage.BatteryVoltage() }

func (b *Battery) Capacity() Capacity  { return b.capacity }
func (b *Battery) Voltage() Voltage    { return b.voltage }
func (b *Battery) Thermal() *Thermal   { return b.thermal }
func (b *Battery) Lifetime() *Lifetime { return b.lifetime }

// Timestep returns the step length in hours.
func (b *Battery) Timestep() float64 { return b.dt }
