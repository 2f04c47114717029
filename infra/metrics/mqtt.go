package metrics

import (
	"encoding/json"

	coremetrics "github.com/kilianp07/battsim/core/metrics"
	"github.com/kilianp07/battsim/infra/mqtt"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTConfig configures the MQTT sink.
type MQTTConfig struct {
	mqtt.Config `json:",squash"`
	// TopicPrefix is the first topic level; defaults to "battsim".
	TopicPrefix string `json:"topic_prefix"`
}

// MQTTSink publishes every step and the summary as JSON.
type MQTTSink struct {
	pub    Publisher
	prefix string
	close  func()
}

// NewMQTTSink publishes through pub under prefix.
func NewMQTTSink(pub Publisher, prefix string) *MQTTSink {
	if prefix == "" {
		prefix = "battsim"
	}
	return &MQTTSink{pub: pub, prefix: prefix}
}

// DialMQTTSink connects to the configured broker.
func DialMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	cli, err := mqtt.NewPahoClient(cfg.Config)
	if err != nil {
		return nil, err
	}
	s := NewMQTTSink(cli, cfg.TopicPrefix)
	s.close = cli.Disconnect
	return s, nil
}

func (s *MQTTSink) RecordStep(r coremetrics.StepRecord) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.pub.Publish(mqtt.StepTopic(s.prefix, r.RunID), payload)
}

func (s *MQTTSink) RecordSummary(sum coremetrics.Summary) error {
	payload, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	return s.pub.Publish(mqtt.SummaryTopic(s.prefix, sum.RunID), payload)
}

// Close disconnects a client opened by DialMQTTSink.
func (s *MQTTSink) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
