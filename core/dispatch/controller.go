package dispatch

import "fmt"

// Bank is the battery bank a Controller drives.
type Bank interface {
	// Run applies bank power (W, positive discharges) for one step.
	Run(p float64)
	// ChargeNeeded is the charge (Ah) missing from a full bank.
	ChargeNeeded() float64
	// ChargeAvailable is the charge (Ah) that can be drawn right away.
	ChargeAvailable() float64
	// Voltage is the bank voltage (V).
	Voltage() float64
	// Current is the realized current (A) of the last Run.
	Current() float64
}

// Result holds the energy flows of one dispatched hour. Energies are in
// kWh. BatteryEnergy is positive when the battery discharged and
// GridEnergy positive when energy was exported.
type Result struct {
	Mode Mode
	// Profile is the 0-based permission profile the hour selected.
	Profile int
	// Requested is the battery energy asked for before the bank applied
	// its own limits.
	Requested     float64
	BatteryEnergy float64
	GridEnergy    float64
	PVToLoad      float64
	BatteryToLoad float64
	GridToLoad    float64
	// NeededToFill and Available describe the bank before the step.
	NeededToFill float64
	Available    float64
}

// Controller implements manual, schedule driven dispatch.
type Controller struct {
	bank     Bank
	dt       float64
	schedule Schedule
	profiles []Profile
	last     Result
}

// NewController validates the schedule against the profiles and returns
// a controller stepping dt hours at a time.
func NewController(bank Bank, dt float64, schedule Schedule, profiles []Profile) (*Controller, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: timestep must be positive", ErrInvalidSchedule)
	}
	if err := schedule.Validate(len(profiles)); err != nil {
		return nil, err
	}
	return &Controller{
		bank:     bank,
		dt:       dt,
		schedule: schedule,
		profiles: append([]Profile(nil), profiles...),
	}, nil
}

const wattsPerKilowatt = 1000.0

// Dispatch decides the battery request for one hour from PV and load
// energy (kWh), runs the bank and returns the realized flows.
func (c *Controller) Dispatch(hourOfYear int, pv, load float64) Result {
	idx := c.schedule.ProfileIndex(hourOfYear)
	prof := c.profiles[idx]

	volts := c.bank.Voltage()
	need := c.bank.ChargeNeeded() * volts / wattsPerKilowatt
	res := Result{
		Mode:         NoAction,
		Profile:      idx,
		NeededToFill: need,
		Available:    c.bank.ChargeAvailable() * volts / wattsPerKilowatt,
	}

	// The branch order decides which permission wins.
	if pv > load {
		switch {
		case prof.Charge && pv-load > need:
			res.Mode, res.Requested = ChargeAllFromArray, -(pv - load)
		case prof.Charge && prof.GridCharge:
			res.Mode, res.Requested = ChargeSomeArrayRestGrid, -need
		case prof.Charge:
			res.Mode, res.Requested = ChargeSomeArrayNoneGrid, -(pv - load)
		case prof.GridCharge:
			res.Mode, res.Requested = ChargeAllFromGrid, -need
		}
	} else {
		switch {
		case prof.Discharge:
			res.Mode, res.Requested = DischargeToMeetLoad, load-pv
		case prof.GridCharge:
			// Grid charging while load exceeds PV and discharge is not
			// allowed.
			res.Mode, res.Requested = ChargeAllFromGrid, -need
		}
	}

	c.bank.Run(wattsPerKilowatt * res.Requested / c.dt)

	// The bank may have cut the current; account for what moved.
	res.BatteryEnergy = c.bank.Current() * volts * c.dt / wattsPerKilowatt
	res.GridEnergy = pv + res.BatteryEnergy - load

	if pv > load {
		res.PVToLoad = load
	} else {
		res.PVToLoad = pv
		if res.BatteryEnergy > 0 {
			res.BatteryToLoad = res.BatteryEnergy
		}
		res.GridToLoad = load - res.PVToLoad - res.BatteryToLoad
	}
	c.last = res
	return res
}

// Last returns the result of the most recent Dispatch.
func (c *Controller) Last() Result { return c.last }

// Profiles returns a copy of the configured profiles.
func (c *Controller) Profiles() []Profile { return append([]Profile(nil), c.profiles...) }

// Schedule returns the month by hour profile table.
func (c *Controller) Schedule() Schedule { return c.schedule }
