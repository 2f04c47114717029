package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
	"github.com/kilianp07/battsim/infra/logger"
)

// InfluxConfig configures the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// BatchSize is the number of steps written per request.
	BatchSize int `json:"batch_size"`
}

const defaultInfluxBatch = 500

// InfluxSink writes step records to an InfluxDB instance using the official
// client. Points are buffered and written in batches.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	batch    int
	pending  []*write.Point
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultInfluxBatch
	}
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		batch:    batch,
		pending:  make([]*write.Point, 0, batch),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.StepSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// StepPoint converts a step record to its line protocol point.
func StepPoint(r coremetrics.StepRecord) *write.Point {
	return write.NewPointWithMeasurement("battery_step").
		AddTag("run_id", r.RunID).
		AddTag("mode", r.Mode.String()).
		AddTag("profile", strconv.Itoa(r.Profile+1)).
		AddField("pv_kwh", round3(r.PV)).
		AddField("load_kwh", round3(r.Load)).
		AddField("battery_kwh", round3(r.BatteryEnergy)).
		AddField("grid_kwh", round3(r.GridEnergy)).
		AddField("soc", round3(r.SOC)).
		AddField("bank_voltage", round3(r.BankVoltage)).
		AddField("temperature_k", round3(r.TemperatureK)).
		AddField("cycles", r.Cycles).
		AddField("damage_pct", r.Damage).
		SetTime(r.Time)
}

// RecordStep buffers the record and writes the batch once it is full.
func (s *InfluxSink) RecordStep(r coremetrics.StepRecord) error {
	s.pending = append(s.pending, StepPoint(r))
	if len(s.pending) < s.batch {
		return nil
	}
	return s.Flush()
}

// RecordSummary writes the run totals as one point.
func (s *InfluxSink) RecordSummary(sum coremetrics.Summary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("battery_run").
		AddTag("run_id", sum.RunID).
		AddField("steps", sum.Steps).
		AddField("charged_kwh", round3(sum.Charged)).
		AddField("discharged_kwh", round3(sum.Discharged)).
		AddField("imported_kwh", round3(sum.Imported)).
		AddField("exported_kwh", round3(sum.Exported)).
		AddField("final_soc", round3(sum.FinalSOC)).
		AddField("cycles", sum.Cycles).
		AddField("damage_pct", sum.Damage).
		SetTime(sum.End)
	return s.writeAPI.WritePoint(ctx, p)
}

// Flush writes buffered points.
func (s *InfluxSink) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.writeAPI.WritePoint(ctx, s.pending...)
	s.pending = s.pending[:0]
	return err
}

// Close flushes pending points and releases the client.
func (s *InfluxSink) Close() error {
	err := s.Flush()
	s.client.Close()
	return err
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
