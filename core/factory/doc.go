// Package factory builds configured modules by name. A registry maps a
// type string to a constructor taking the raw "conf" map of a
// ModuleConfig; Decode turns that map into the module's own config struct
// using its json tags.
//
// The metrics package keeps one registry of step sinks:
//
//	_ = metrics.RegisterStepSink("jsonl", func(conf map[string]any) (metrics.StepSink, error) {
//	    var c JSONLConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return OpenJSONLSink(c)
//	})
package factory
