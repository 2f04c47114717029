package metrics

import (
	"github.com/kilianp07/battsim/core/factory"
	coremetrics "github.com/kilianp07/battsim/core/metrics"
)

// init registers built-in step sinks.
func init() {
	_ = coremetrics.RegisterStepSink("nop", func(map[string]any) (coremetrics.StepSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterStepSink("prometheus", func(conf map[string]any) (coremetrics.StepSink, error) {
		var c PromConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSink(c)
	})

	_ = coremetrics.RegisterStepSink("influx", func(conf map[string]any) (coremetrics.StepSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	_ = coremetrics.RegisterStepSink("jsonl", func(conf map[string]any) (coremetrics.StepSink, error) {
		var c JSONLConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return OpenJSONLSink(c)
	})

	_ = coremetrics.RegisterStepSink("csv", func(conf map[string]any) (coremetrics.StepSink, error) {
		var c CSVConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return OpenCSVSink(c)
	})

	_ = coremetrics.RegisterStepSink("mqtt", func(conf map[string]any) (coremetrics.StepSink, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return DialMQTTSink(c)
	})
}
