package metrics

import (
	"fmt"

	"github.com/kilianp07/battsim/core/factory"
)

var sinkRegistry = factory.NewRegistry[StepSink]()

// RegisterStepSink adds a sink factory identified by name.
func RegisterStepSink(name string, f factory.Factory[StepSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewStepSink creates a StepSink from the provided configuration. No
// configuration yields a NopSink and several a MultiSink.
func NewStepSink(cfgs []factory.ModuleConfig) (StepSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return create(cfgs[0])
	}
	sinks := make([]StepSink, len(cfgs))
	for i, c := range cfgs {
		s, err := create(c)
		if err != nil {
			for _, prev := range sinks[:i] {
				_ = Close(prev)
			}
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

func create(c factory.ModuleConfig) (StepSink, error) {
	s, err := sinkRegistry.Create(c)
	if err != nil {
		return nil, fmt.Errorf("metrics sink %q: %w", c.Type, err)
	}
	return s, nil
}
