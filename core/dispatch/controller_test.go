package dispatch

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/battsim/core/battery"
)

// fakeBank converts power to current at a fixed voltage and optionally
// limits the current magnitude.
type fakeBank struct {
	volts      float64
	needAh     float64
	availAh    float64
	maxCurrent float64
	current    float64
	runs       []float64
}

func (b *fakeBank) Run(p float64) {
	b.runs = append(b.runs, p)
	i := p / b.volts
	if b.maxCurrent > 0 {
		i = math.Max(-b.maxCurrent, math.Min(b.maxCurrent, i))
	}
	b.current = i
}
func (b *fakeBank) ChargeNeeded() float64    { return b.needAh }
func (b *fakeBank) ChargeAvailable() float64 { return b.availAh }
func (b *fakeBank) Voltage() float64         { return b.volts }
func (b *fakeBank) Current() float64         { return b.current }

func newTestController(t *testing.T, bank Bank, p Profile) *Controller {
	t.Helper()
	c, err := NewController(bank, 1, Uniform(1), []Profile{p})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestDispatchChargeAllFromArray(t *testing.T) {
	// 30 Ah at 100 V is 3 kWh to fill.
	bank := &fakeBank{volts: 100, needAh: 30}
	c := newTestController(t, bank, Profile{Charge: true})

	r := c.Dispatch(0, 10, 4)
	assert.Equal(t, ChargeAllFromArray, r.Mode)
	assert.InDelta(t, 3, r.NeededToFill, 1e-12)
	assert.InDelta(t, -6, r.Requested, 1e-12)
	assert.InDelta(t, -6000, bank.runs[0], 1e-9)
	assert.InDelta(t, -6, r.BatteryEnergy, 1e-12)
	assert.InDelta(t, 0, r.GridEnergy, 1e-12)
	assert.InDelta(t, 4, r.PVToLoad, 1e-12)
	assert.Zero(t, r.BatteryToLoad)
	assert.Zero(t, r.GridToLoad)
}

func TestDispatchChargeIsLimitedByBank(t *testing.T) {
	bank := &fakeBank{volts: 100, needAh: 30, maxCurrent: 20}
	c := newTestController(t, bank, Profile{Charge: true})

	r := c.Dispatch(0, 10, 4)
	assert.InDelta(t, -6, r.Requested, 1e-12)
	assert.InDelta(t, -2, r.BatteryEnergy, 1e-12)
	// Whatever the battery could not take is exported.
	assert.InDelta(t, 4, r.GridEnergy, 1e-12)
}

func TestDispatchDischargeToMeetLoad(t *testing.T) {
	bank := &fakeBank{volts: 100, availAh: 50}
	c := newTestController(t, bank, Profile{Discharge: true})

	r := c.Dispatch(0, 2, 5)
	assert.Equal(t, DischargeToMeetLoad, r.Mode)
	assert.InDelta(t, 3, r.Requested, 1e-12)
	assert.InDelta(t, 3, r.BatteryEnergy, 1e-12)
	assert.InDelta(t, 0, r.GridEnergy, 1e-12)
	assert.InDelta(t, 2, r.PVToLoad, 1e-12)
	assert.InDelta(t, 3, r.BatteryToLoad, 1e-12)
	assert.InDelta(t, 0, r.GridToLoad, 1e-12)
	assert.InDelta(t, 5, r.Available, 1e-12)
}

func TestDispatchDischargeLimitedImportsRest(t *testing.T) {
	bank := &fakeBank{volts: 100, maxCurrent: 10}
	c := newTestController(t, bank, Profile{Discharge: true})

	r := c.Dispatch(0, 2, 5)
	assert.InDelta(t, 1, r.BatteryEnergy, 1e-12)
	assert.InDelta(t, -2, r.GridEnergy, 1e-12)
	assert.InDelta(t, 1, r.BatteryToLoad, 1e-12)
	assert.InDelta(t, 2, r.GridToLoad, 1e-12)
}

func TestDispatchPriorityOrder(t *testing.T) {
	tests := []struct {
		name      string
		profile   Profile
		pv, load  float64
		mode      Mode
		requested float64
	}{
		{"excess covers need", Profile{Charge: true, GridCharge: true}, 10, 4, ChargeAllFromArray, -6},
		{"top up from grid", Profile{Charge: true, GridCharge: true}, 5, 4, ChargeSomeArrayRestGrid, -3},
		{"array only", Profile{Charge: true}, 5, 4, ChargeSomeArrayNoneGrid, -1},
		{"grid only with surplus", Profile{GridCharge: true}, 5, 4, ChargeAllFromGrid, -3},
		{"surplus without permission", Profile{Discharge: true}, 5, 4, NoAction, 0},
		{"discharge wins over grid", Profile{Discharge: true, GridCharge: true}, 1, 4, DischargeToMeetLoad, 3},
		{"grid charge under load", Profile{GridCharge: true}, 1, 4, ChargeAllFromGrid, -3},
		{"load without permission", Profile{Charge: true}, 1, 4, NoAction, 0},
		{"balanced discharge", Profile{Discharge: true}, 4, 4, DischargeToMeetLoad, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := &fakeBank{volts: 100, needAh: 30}
			c := newTestController(t, bank, tt.profile)
			r := c.Dispatch(0, tt.pv, tt.load)
			if r.Mode != tt.mode {
				t.Fatalf("mode = %v, want %v", r.Mode, tt.mode)
			}
			if math.Abs(r.Requested-tt.requested) > 1e-12 {
				t.Fatalf("requested = %v, want %v", r.Requested, tt.requested)
			}
			if math.Abs(r.GridEnergy-(tt.pv+r.BatteryEnergy-tt.load)) > 1e-12 {
				t.Fatalf("grid balance broken: %+v", r)
			}
			if c.Last() != r {
				t.Fatalf("last result not kept")
			}
		})
	}
}

func TestDispatchScalesPowerByTimestep(t *testing.T) {
	bank := &fakeBank{volts: 100}
	c, err := NewController(bank, 0.5, Uniform(1), []Profile{{Discharge: true}})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	r := c.Dispatch(0, 0, 2)
	if bank.runs[0] != 4000 {
		t.Fatalf("power = %v, want 4000 W over half an hour", bank.runs[0])
	}
	assert.InDelta(t, 2, r.BatteryEnergy, 1e-12)
}

func TestDispatchUsesScheduledProfile(t *testing.T) {
	s := Uniform(1)
	for h := range s[1] {
		s[1][h] = 2 // February
	}
	bank := &fakeBank{volts: 100}
	c, err := NewController(bank, 1, s, []Profile{{Discharge: true}, {}})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if r := c.Dispatch(743, 0, 1); r.Mode != DischargeToMeetLoad || r.Profile != 0 {
		t.Fatalf("january: %+v", r)
	}
	if r := c.Dispatch(744, 0, 1); r.Mode != NoAction || r.Profile != 1 {
		t.Fatalf("february: %+v", r)
	}
}

func TestNewControllerRejectsBadProfiles(t *testing.T) {
	bank := &fakeBank{volts: 100}
	s := Uniform(1)
	s[5][12] = 3
	if _, err := NewController(bank, 1, s, []Profile{{}, {}}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	s[5][12] = 0
	if _, err := NewController(bank, 1, s, []Profile{{}, {}, {}, {}}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile for 0, got %v", err)
	}
	if _, err := NewController(bank, 0, Uniform(1), []Profile{{}}); err == nil {
		t.Fatalf("expected error for zero timestep")
	}
}

func TestDispatchWithBatteryBank(t *testing.T) {
	th, err := battery.NewThermal(battery.ThermalParams{
		Mass: 20, Length: 0.5, Width: 0.3, Height: 0.2, Cp: 1000, H: 10, RoomTempC: 25, R: 0.01,
		CapacityVsTemp: []battery.RetentionPoint{{TempC: 0, Percent: 80}, {TempC: 25, Percent: 100}},
	})
	if err != nil {
		t.Fatalf("thermal: %v", err)
	}
	b := battery.New(battery.NewLithiumIon(100, 48, nil), battery.NewBasicVoltage(24, 2), th,
		battery.NewLifetime(func(float64) float64 { return 2000 }), 1)
	bank := battery.NewBank(b, 1, 1)
	c, err := NewController(bank, 1, Uniform(1), []Profile{{Charge: true, Discharge: true}})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	pv := []float64{0, 0, 0, 0, 3, 6, 6, 6, 6, 3, 0, 0}
	load := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2}
	for h := range pv {
		r := c.Dispatch(h, pv[h], load[h])
		if soc := bank.SOC(); soc < 0 || soc > 100 {
			t.Fatalf("hour %d: soc %v", h, soc)
		}
		if math.Abs(r.GridEnergy-(pv[h]+r.BatteryEnergy-load[h])) > 1e-9 {
			t.Fatalf("hour %d: grid balance broken", h)
		}
		if r.PVToLoad+r.BatteryToLoad+r.GridToLoad-load[h] > 1e-9 {
			t.Fatalf("hour %d: load split exceeds load: %+v", h, r)
		}
	}
	bank.Finish()
	if bank.Cycles() == 0 {
		t.Fatalf("expected at least one counted cycle")
	}
}
