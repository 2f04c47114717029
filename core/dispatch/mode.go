package dispatch

import "strconv"

// Mode describes how one hour's energy was split between array, battery
// and grid.
type Mode int

const (
	DischargeToMeetLoad     Mode = -1
	NoAction                Mode = 0
	ChargeAllFromGrid       Mode = 1
	ChargeSomeArrayRestGrid Mode = 2
	ChargeSomeArrayNoneGrid Mode = 3
	ChargeAllFromArray      Mode = 4
)

// Modes lists every mode in numeric order.
var Modes = []Mode{DischargeToMeetLoad, NoAction, ChargeAllFromGrid, ChargeSomeArrayRestGrid, ChargeSomeArrayNoneGrid, ChargeAllFromArray}

func (m Mode) String() string {
	switch m {
	case DischargeToMeetLoad:
		return "discharge_to_meet_load"
	case NoAction:
		return "no_action"
	case ChargeAllFromGrid:
		return "charge_all_from_grid"
	case ChargeSomeArrayRestGrid:
		return "charge_some_array_rest_grid"
	case ChargeSomeArrayNoneGrid:
		return "charge_some_array_none_grid"
	case ChargeAllFromArray:
		return "charge_all_from_array"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Charging reports whether the mode requests energy into the battery.
func (m Mode) Charging() bool { return m > NoAction }
