// Package infra contains the adapters around the simulation core: the
// zerolog logger, step sinks for Prometheus, InfluxDB, MQTT and files,
// the paho MQTT client and Sentry error reporting. These packages depend
// only on the interfaces defined in the core packages.
package infra
