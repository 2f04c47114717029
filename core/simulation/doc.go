// Package simulation drives a battery bank through an hourly PV and load
// series. A Runner dispatches every step, hands a StepRecord to the
// configured sink, closes the rainflow count once the series ends and
// returns the run totals.
package simulation
