package battery

// Bank scales one Battery to series and parallel strings of identical
// units. Every unit in a string carries the same current, so only the one
// battery is simulated.
type Bank struct {
	battery  *Battery
	series   int
	parallel int
}

// NewBank wraps b in a series x parallel arrangement.
func NewBank(b *Battery, series, parallel int) *Bank {
	return &Bank{battery: b, series: series, parallel: parallel}
}

// Run splits bank power p (W) across the series string.
func (k *Bank) Run(p float64) { k.battery.Run(p / float64(k.series)) }

// Finish closes the battery's cycle count.
func (k *Bank) Finish() { k.battery.Finish() }

// ChargeNeeded is the charge (Ah) summed over all units.
func (k *Bank) ChargeNeeded() float64 {
	return float64(k.Units()) * k.battery.ChargeNeededToFill()
}

// ChargeAvailable is the available charge (Ah) summed over all units.
func (k *Bank) ChargeAvailable() float64 {
	return float64(k.Units()) * k.battery.CurrentCharge()
}

// Voltage is the series string voltage.
func (k *Bank) Voltage() float64 { return float64(k.series) * k.battery.BatteryVoltage() }

// Current is the realized current of one unit in the last step (A).
func (k *Bank) Current() float64 { return k.battery.Capacity().Current() }

// Units is the number of batteries in the bank.
func (k *Bank) Units() int { return k.series * k.parallel }

func (k *Bank) Series() int       { return k.series }
func (k *Bank) Parallel() int     { return k.parallel }
func (k *Bank) Battery() *Battery { return k.battery }
func (k *Bank) SOC() float64      { return k.battery.Capacity().SOC() }
func (k *Bank) DOD() float64      { return k.battery.Capacity().DOD() }
func (k *Bank) Cycles() int       { return k.battery.Lifetime().Cycles() }
func (k *Bank) Damage() float64   { return k.battery.Lifetime().Damage() }

// Temperature returns the battery temperature in Kelvin.
func (k *Bank) Temperature() float64 { return k.battery.Thermal().Temperature() }
