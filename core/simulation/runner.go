package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/battsim/core/battery"
	"github.com/kilianp07/battsim/core/calendar"
	"github.com/kilianp07/battsim/core/dispatch"
	"github.com/kilianp07/battsim/core/logger"
	coremetrics "github.com/kilianp07/battsim/core/metrics"
)

// Runner steps one bank through a series.
type Runner struct {
	bank      *battery.Bank
	ctrl      *dispatch.Controller
	sink      coremetrics.StepSink
	log       logger.Logger
	runID     string
	start     time.Time
	firstHour int
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the run logger.
func WithLogger(l logger.Logger) Option { return func(r *Runner) { r.log = logger.OrNop(l) } }

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// WithStart stamps steps of series without a time column.
func WithStart(t time.Time) Option { return func(r *Runner) { r.start = t } }

// WithFirstHour sets the hour of year of the first step.
func WithFirstHour(h int) Option { return func(r *Runner) { r.firstHour = h } }

// NewRunner returns a runner dispatching bank with ctrl. A nil sink
// discards step records.
func NewRunner(bank *battery.Bank, ctrl *dispatch.Controller, sink coremetrics.StepSink, opts ...Option) *Runner {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	r := &Runner{
		bank:  bank,
		ctrl:  ctrl,
		sink:  sink,
		log:   logger.Nop{},
		runID: uuid.NewString(),
		start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RunID identifies the run on every record.
func (r *Runner) RunID() string { return r.runID }

// Run dispatches every step of s. Once the series is exhausted the
// rainflow count is closed and the summary handed to the sink. A
// cancelled context stops the loop and returns the partial totals with
// the context error; the lifetime model is left open in that case.
func (r *Runner) Run(ctx context.Context, s Series) (coremetrics.Summary, error) {
	sum := coremetrics.NewSummary(r.runID)
	dt := r.bank.Battery().Timestep()
	step := time.Duration(dt * float64(time.Hour))
	r.log.Infof("run %s: %d steps of %.2f h from hour %d", r.runID, s.Len(), dt, r.firstHour)

	for i := 0; i < s.Len(); i++ {
		if err := ctx.Err(); err != nil {
			r.log.Warnf("run %s cancelled after %d steps", r.runID, i)
			return sum, err
		}
		hour := r.firstHour + int(float64(i)*dt)
		res := r.ctrl.Dispatch(hour, s.PV[i], s.Load[i])

		ts := r.start.Add(time.Duration(i) * step)
		if s.Time != nil {
			ts = s.Time[i]
		}
		rec := r.record(hour%calendar.HoursPerYear, ts, s.PV[i], s.Load[i], res)
		sum.Add(rec)
		if err := r.sink.RecordStep(rec); err != nil {
			return sum, fmt.Errorf("record step %d: %w", i, err)
		}
	}

	r.bank.Finish()
	sum.Cycles = r.bank.Cycles()
	sum.Damage = r.bank.Damage()
	if err := coremetrics.RecordSummary(r.sink, sum); err != nil {
		return sum, fmt.Errorf("record summary: %w", err)
	}
	r.log.Infof("run %s done: final soc %.1f%%, %d cycles, damage %.4f%%", r.runID, sum.FinalSOC, sum.Cycles, sum.Damage)
	return sum, nil
}

func (r *Runner) record(hour int, ts time.Time, pv, load float64, res dispatch.Result) coremetrics.StepRecord {
	b := r.bank.Battery()
	return coremetrics.StepRecord{
		RunID:         r.runID,
		Hour:          hour,
		Time:          ts,
		PV:            pv,
		Load:          load,
		Mode:          res.Mode,
		Profile:       res.Profile,
		Requested:     res.Requested,
		BatteryEnergy: res.BatteryEnergy,
		GridEnergy:    res.GridEnergy,
		PVToLoad:      res.PVToLoad,
		BatteryToLoad: res.BatteryToLoad,
		GridToLoad:    res.GridToLoad,
		SOC:           r.bank.SOC(),
		DOD:           r.bank.DOD(),
		Current:       r.bank.Current(),
		CellVoltage:   b.CellVoltage(),
		BankVoltage:   r.bank.Voltage(),
		TemperatureK:  r.bank.Temperature(),
		Cycles:        r.bank.Cycles(),
		Damage:        r.bank.Damage(),
	}
}
