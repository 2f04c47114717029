package battery

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/battsim/core/fit"
	"github.com/kilianp07/battsim/core/logger"
)

// Chemistry selects the capacity model.
type Chemistry string

const (
	ChemistryKiBaM      Chemistry = "kibam"
	ChemistryLithiumIon Chemistry = "lithium_ion"
)

// VoltageModel selects the voltage model.
type VoltageModel string

const (
	VoltageDynamic VoltageModel = "dynamic"
	VoltageBasic   VoltageModel = "basic"
)

// ErrInvalidConfig wraps every battery configuration failure.
var ErrInvalidConfig = errors.New("invalid battery config")

// LithiumIonConfig sizes the lithium ion tank and its capacity fade.
type LithiumIonConfig struct {
	// Capacity is the nameplate charge in Ah.
	Capacity float64 `json:"capacity"`
	// FadeCycles and FadePercent pair cycle counts with remaining capacity.
	FadeCycles  []float64 `json:"fade_cycles"`
	FadePercent []float64 `json:"fade_percent"`
}

// VoltageConfig selects and parameterises the voltage model.
type VoltageConfig struct {
	Model VoltageModel `json:"model"`
	// Cells is the number of cells in series inside one battery.
	Cells int `json:"cells"`
	// CellVoltage is the fixed cell voltage of the basic model.
	CellVoltage float64         `json:"cell_voltage"`
	Datasheet   DatasheetPoints `json:"datasheet"`
}

// LifetimeConfig pairs depth of discharge with cycles to failure.
type LifetimeConfig struct {
	DOD    []float64 `json:"dod"`
	Cycles []float64 `json:"cycles"`
}

// Config describes a complete bank.
type Config struct {
	Chemistry Chemistry `json:"chemistry"`
	// TimestepHours is the simulation step; 1 for hourly series.
	TimestepHours float64          `json:"timestep_hours"`
	Series        int              `json:"series"`
	Parallel      int              `json:"parallel"`
	KiBaM         KiBaMParams      `json:"kibam"`
	LithiumIon    LithiumIonConfig `json:"lithium_ion"`
	Voltage       VoltageConfig    `json:"voltage"`
	Thermal       ThermalParams    `json:"thermal"`
	Lifetime      LifetimeConfig   `json:"lifetime"`
}

// SetDefaults fills counts and selectors left empty.
func (c *Config) SetDefaults() {
	if c.Chemistry == "" {
		c.Chemistry = ChemistryLithiumIon
	}
	if c.TimestepHours == 0 {
		c.TimestepHours = 1
	}
	if c.Series == 0 {
		c.Series = 1
	}
	if c.Parallel == 0 {
		c.Parallel = 1
	}
	if c.Voltage.Model == "" {
		c.Voltage.Model = VoltageDynamic
	}
	if c.Voltage.Cells == 0 {
		c.Voltage.Cells = 1
	}
	if len(c.Thermal.CapacityVsTemp) == 0 {
		c.Thermal.CapacityVsTemp = []RetentionPoint{{TempC: -10, Percent: 60}, {TempC: 0, Percent: 80}, {TempC: 25, Percent: 100}, {TempC: 40, Percent: 100}}
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks the configuration can build a bank.
//
//nolint:gocyclo
func (c Config) Validate() error {
	if c.TimestepHours <= 0 {
		return invalid("timestep_hours must be positive")
	}
	if c.Series < 1 || c.Parallel < 1 {
		return invalid("series and parallel must be at least 1")
	}
	switch c.Chemistry {
	case ChemistryKiBaM:
		p := c.KiBaM
		if p.Q20 <= 0 || p.I20 <= 0 || p.Q1 <= 0 || p.Q2 <= 0 {
			return invalid("kibam capacities and current must be positive")
		}
		if p.T1 <= 0 || p.T2 <= 0 {
			return invalid("kibam test times must be positive")
		}
	case ChemistryLithiumIon:
		if c.LithiumIon.Capacity <= 0 {
			return invalid("lithium_ion.capacity must be positive")
		}
		if len(c.LithiumIon.FadeCycles) != len(c.LithiumIon.FadePercent) {
			return invalid("lithium_ion fade_cycles and fade_percent differ in length")
		}
	default:
		return invalid("unknown chemistry %q", c.Chemistry)
	}
	if c.Voltage.Cells < 1 {
		return invalid("voltage.cells must be at least 1")
	}
	switch c.Voltage.Model {
	case VoltageBasic:
		if c.Voltage.CellVoltage <= 0 {
			return invalid("voltage.cell_voltage must be positive")
		}
	case VoltageDynamic:
		d := c.Voltage.Datasheet
		if d.Vfull <= 0 || d.Vnom <= 0 || d.Qfull <= 0 || d.Qnom <= 0 || d.Qexp <= 0 || d.CRate <= 0 {
			return invalid("voltage.datasheet values must be positive")
		}
	default:
		return invalid("unknown voltage model %q", c.Voltage.Model)
	}
	t := c.Thermal
	if t.Mass <= 0 || t.Cp <= 0 {
		return invalid("thermal mass and cp must be positive")
	}
	if t.Length < 0 || t.Width < 0 || t.Height < 0 || t.H < 0 || t.R < 0 {
		return invalid("thermal dimensions, h and r must not be negative")
	}
	if len(c.Lifetime.DOD) == 0 || len(c.Lifetime.DOD) != len(c.Lifetime.Cycles) {
		return invalid("lifetime needs matching, non-empty dod and cycles")
	}
	return nil
}

// NewBankFromConfig validates cfg, fits every model and assembles the bank.
// Fits that do not converge are logged and the run continues with the
// best coefficients found.
func NewBankFromConfig(cfg Config, log logger.Logger) (*Bank, error) {
	log = logger.OrNop(log)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	volt, err := buildVoltage(cfg.Voltage, log)
	if err != nil {
		return nil, err
	}
	capacity, err := buildCapacity(cfg, volt.BatteryVoltage(), log)
	if err != nil {
		return nil, err
	}
	thermal, err := NewThermal(cfg.Thermal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	life, err := buildLifetime(cfg.Lifetime, log)
	if err != nil {
		return nil, err
	}
	b := New(capacity, volt, thermal, life, cfg.TimestepHours)
	return NewBank(b, cfg.Series, cfg.Parallel), nil
}

func buildVoltage(cfg VoltageConfig, log logger.Logger) (Voltage, error) {
	if cfg.Model == VoltageBasic {
		return NewBasicVoltage(cfg.Cells, cfg.CellVoltage), nil
	}
	v := NewDynamicVoltage(cfg.Cells, cfg.Datasheet)
	k := v.Constants()
	log.Debugw("dynamic voltage fitted", map[string]any{
		"e0": k.E0, "r": k.R, "k": k.K, "a": k.A, "b": k.B,
	})
	return v, nil
}

func buildCapacity(cfg Config, v float64, log logger.Logger) (Capacity, error) {
	if cfg.Chemistry == ChemistryKiBaM {
		m := NewKiBaM(cfg.KiBaM, v)
		if m.K() >= float64(kGridSteps-1)*kGridStep {
			log.Warnf("kibam rate constant saturated at grid bound k=%.3f", m.K())
		}
		if m.C() <= 0 || m.C() >= 1 || cfg.KiBaM.Q20 > m.Qmax() {
			log.Warnf("kibam fit is not physical: c=%.4f outside (0,1) or initial charge %.2f Ah above qmax %.2f Ah",
				m.C(), cfg.KiBaM.Q20, m.Qmax())
		}
		log.Debugw("kibam fitted", map[string]any{
			"k": m.K(), "c": m.C(), "qmax": m.Qmax(), "qmax_i": m.QmaxI(),
		})
		return m, nil
	}
	li := cfg.LithiumIon
	fade := NoFade
	if len(li.FadeCycles) > 0 {
		p, st, err := fit.FitPolynomial(li.FadeCycles, li.FadePercent, 3)
		if err != nil {
			return nil, fmt.Errorf("%w: capacity fade: %v", ErrInvalidConfig, err)
		}
		if !st.Converged {
			log.Warnf("capacity fade fit did not converge: %s", st.Reason)
		}
		log.Debugw("capacity fade fitted", map[string]any{"coefficients": []float64(p), "residual": st.Residual})
		if usableFade(p) {
			fade = p
		} else {
			log.Warnf("capacity fade fit %v is unusable, capacity will not fade", []float64(p))
		}
	}
	return NewLithiumIon(li.Capacity, v, fade), nil
}

// usableFade rejects coefficients that are not finite or leave no capacity
// on a fresh battery.
func usableFade(p fit.Polynomial) bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return p.Eval(0) > 0
}

func buildLifetime(cfg LifetimeConfig, log logger.Logger) (*Lifetime, error) {
	curve, st, err := fit.FitLifeCurve(cfg.DOD, cfg.Cycles)
	if err != nil {
		return nil, fmt.Errorf("%w: cycle life: %v", ErrInvalidConfig, err)
	}
	if !st.Converged {
		log.Warnf("cycle life fit did not converge after %d evaluations: %s", st.Evaluations, st.Reason)
	}
	log.Debugw("cycle life fitted", map[string]any{"coefficients": curve[:], "residual": st.Residual})
	return NewLifetime(curve.Eval), nil
}
