package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
	"github.com/kilianp07/battsim/infra/logger"
)

// PromConfig configures the Prometheus sink.
type PromConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace"`
	// PushURL is a Pushgateway endpoint receiving the final values when
	// the sink is closed. Empty disables pushing.
	PushURL string `json:"push_url"`
	Job     string `json:"job"`
	// Addr serves /metrics for the duration of the run when set.
	Addr string `json:"addr"`
}

// PromSink exposes the battery state as gauges and the energy flows as
// counters.
type PromSink struct {
	reg *prometheus.Registry

	soc     prometheus.Gauge
	dod     prometheus.Gauge
	temp    prometheus.Gauge
	voltage prometheus.Gauge
	current prometheus.Gauge
	cycles  prometheus.Gauge
	damage  prometheus.Gauge
	energy  *prometheus.CounterVec
	modes   *prometheus.CounterVec
	steps   prometheus.Counter

	pushURL string
	job     string
	runID   string
	stop    context.CancelFunc
	served  chan error
	log     logger.Logger
	once    sync.Once
}

// NewPromSink registers the simulation metrics on a dedicated registry.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = "battsim"
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: name, Help: help})
	}
	s := &PromSink{
		reg:     prometheus.NewRegistry(),
		soc:     gauge("battery_soc_percent", "Battery state of charge"),
		dod:     gauge("battery_dod_percent", "Battery depth of discharge"),
		temp:    gauge("battery_temperature_kelvin", "Battery temperature"),
		voltage: gauge("bank_voltage_volts", "Bank voltage"),
		current: gauge("battery_current_amperes", "Realized battery current, positive on discharge"),
		cycles:  gauge("battery_cycles_total", "Rainflow half cycles counted so far"),
		damage:  gauge("battery_damage_percent", "Accumulated fatigue damage"),
		energy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "energy_kwh_total",
			Help:      "Energy moved per flow",
		}, []string{"flow"}),
		modes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "dispatch_steps_total",
			Help:      "Dispatched steps per mode",
		}, []string{"mode"}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "steps_total",
			Help:      "Simulated steps",
		}),
		pushURL: cfg.PushURL,
		job:     cfg.Job,
		log:     logger.New("prom-sink"),
	}
	if s.job == "" {
		s.job = "battsim"
	}
	for _, c := range []prometheus.Collector{s.soc, s.dod, s.temp, s.voltage, s.current, s.cycles, s.damage, s.energy, s.modes, s.steps} {
		if err := s.reg.Register(c); err != nil {
			return nil, fmt.Errorf("register prometheus collector: %w", err)
		}
	}
	if cfg.Addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		s.stop = cancel
		s.served = make(chan error, 1)
		go func() { s.served <- StartPromServer(ctx, cfg.Addr, s.reg) }()
	}
	return s, nil
}

// Registry returns the registry holding the sink's collectors.
func (s *PromSink) Registry() *prometheus.Registry { return s.reg }

// RecordStep updates gauges and adds the step's energy to the counters.
func (s *PromSink) RecordStep(r coremetrics.StepRecord) error {
	s.runID = r.RunID
	s.soc.Set(r.SOC)
	s.dod.Set(r.DOD)
	s.temp.Set(r.TemperatureK)
	s.voltage.Set(r.BankVoltage)
	s.current.Set(r.Current)
	s.cycles.Set(float64(r.Cycles))
	s.damage.Set(r.Damage)

	s.energy.WithLabelValues("pv").Add(r.PV)
	s.energy.WithLabelValues("load").Add(r.Load)
	if r.BatteryEnergy > 0 {
		s.energy.WithLabelValues("discharged").Add(r.BatteryEnergy)
	} else if r.BatteryEnergy < 0 {
		s.energy.WithLabelValues("charged").Add(-r.BatteryEnergy)
	}
	if r.GridEnergy > 0 {
		s.energy.WithLabelValues("exported").Add(r.GridEnergy)
	} else if r.GridEnergy < 0 {
		s.energy.WithLabelValues("imported").Add(-r.GridEnergy)
	}
	s.energy.WithLabelValues("pv_to_load").Add(r.PVToLoad)
	s.energy.WithLabelValues("battery_to_load").Add(r.BatteryToLoad)
	s.energy.WithLabelValues("grid_to_load").Add(r.GridToLoad)

	s.modes.WithLabelValues(r.Mode.String()).Inc()
	s.steps.Inc()
	return nil
}

// RecordSummary sets the final cycle and damage gauges, which include the
// ranges closed when the run finished.
func (s *PromSink) RecordSummary(sum coremetrics.Summary) error {
	s.runID = sum.RunID
	s.cycles.Set(float64(sum.Cycles))
	s.damage.Set(sum.Damage)
	return nil
}

// Close pushes the registry to the Pushgateway when configured and stops
// the metrics server.
func (s *PromSink) Close() error {
	var err error
	s.once.Do(func() {
		if s.pushURL != "" {
			p := push.New(s.pushURL, s.job).Gatherer(s.reg)
			if s.runID != "" {
				p = p.Grouping("run_id", s.runID)
			}
			if perr := p.Push(); perr != nil {
				err = fmt.Errorf("push metrics: %w", perr)
			}
		}
		if s.stop != nil {
			s.stop()
			if serr := <-s.served; serr != nil {
				s.log.Errorf("metrics server: %v", serr)
			}
		}
	})
	return err
}
