package battery

import "math"

// Voltage is implemented by *DynamicVoltage and *BasicVoltage only.
type Voltage interface {
	// Update recomputes the cell voltage from the capacity state after a
	// step of dt hours.
	Update(c Capacity, dt float64)
	Cells() int
	CellVoltage() float64
	// BatteryVoltage is the pack voltage, cells times cell voltage.
	BatteryVoltage() float64

	voltage()
}

type cellString struct {
	cells int
	cell  float64
}

func (s *cellString) Cells() int              { return s.cells }
func (s *cellString) CellVoltage() float64    { return s.cell }
func (s *cellString) BatteryVoltage() float64 { return float64(s.cells) * s.cell }

// BasicVoltage holds a constant cell voltage.
type BasicVoltage struct {
	cellString
}

var _ Voltage = (*BasicVoltage)(nil)

// NewBasicVoltage returns a pack of cells at a fixed per-cell voltage.
func NewBasicVoltage(cells int, cellVoltage float64) *BasicVoltage {
	return &BasicVoltage{cellString{cells: cells, cell: cellVoltage}}
}

// Update implements Voltage; the basic model never changes.
func (*BasicVoltage) Update(Capacity, float64) {}

func (*BasicVoltage) voltage() {}

// DatasheetPoints are the discharge curve features the dynamic model is
// fitted from, all per cell.
type DatasheetPoints struct {
	Vfull float64 `json:"v_full"`
	Vexp  float64 `json:"v_exp"`
	Vnom  float64 `json:"v_nom"`
	Qfull float64 `json:"q_full"`
	Qexp  float64 `json:"q_exp"`
	Qnom  float64 `json:"q_nom"`
	// CRate is the discharge rate the curve was measured at.
	CRate float64 `json:"c_rate"`
}

// DynamicConstants are the fitted terms of the dynamic voltage equation.
type DynamicConstants struct {
	E0 float64 // open circuit reference (V)
	R  float64 // internal resistance (ohm)
	K  float64 // polarization constant (V)
	A  float64 // exponential zone amplitude (V)
	B  float64 // exponential zone rate (1/Ah)
}

// efficiency of the nominal point used to derive the internal resistance.
const voltageEta = 0.995

// minChargeFraction is the q0/qmaxI ratio at or below which the voltage is
// held; the equation diverges as the cell empties.
const minChargeFraction = 0.01

// DynamicVoltage follows the discharge curve of a generic cell fitted from
// datasheet points.
type DynamicVoltage struct {
	cellString
	points DatasheetPoints
	k      DynamicConstants
}

var _ Voltage = (*DynamicVoltage)(nil)

// NewDynamicVoltage fits the dynamic constants and starts at Vfull.
func NewDynamicVoltage(cells int, d DatasheetPoints) *DynamicVoltage {
	return &DynamicVoltage{
		cellString: cellString{cells: cells, cell: d.Vfull},
		points:     d,
		k:          fitDynamic(d),
	}
}

func fitDynamic(d DatasheetPoints) DynamicConstants {
	i := d.Qfull * d.CRate
	var k DynamicConstants
	k.R = d.Vnom * (1 - voltageEta) / (d.CRate * d.Qnom)
	k.A = d.Vfull - d.Vexp
	k.B = 3 / d.Qexp
	k.K = ((d.Vfull - d.Vnom + k.A*(math.Exp(-k.B*d.Qnom)-1)) * (d.Qfull - d.Qnom)) / d.Qnom
	k.E0 = d.Vfull + k.K + k.R*i - k.A
	return k
}

// Update implements Voltage.
func (v *DynamicVoltage) Update(c Capacity, dt float64) {
	qmax := c.QmaxI()
	q0 := c.Q0()
	if qmax <= 0 || q0/qmax <= minChargeFraction {
		return
	}
	n := float64(v.cells)
	v.cell = v.cellVoltage(qmax/n, math.Abs(c.Current())/n, q0/n, dt)
}

// cellVoltage evaluates the per-cell equation for capacity q, current i
// and stored charge q0 over dt hours.
func (v *DynamicVoltage) cellVoltage(q, i, q0, dt float64) float64 {
	k := v.k
	f := 1 - q0/q
	return k.E0 - k.R*i - k.K*(1/(1-f)) + k.A*math.Exp(-k.B*i*dt)
}

// Constants returns the fitted equation terms.
func (v *DynamicVoltage) Constants() DynamicConstants { return v.k }

// Points returns the datasheet points the model was fitted from.
func (v *DynamicVoltage) Points() DatasheetPoints { return v.points }

func (*DynamicVoltage) voltage() {}
