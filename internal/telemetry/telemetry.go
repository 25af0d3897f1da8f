// Package telemetry exposes the OpenTelemetry metric API for SDK-internal
// instrumentation. Noroshi is a library: it never installs a meter provider
// or exporter; the host application wires those. When no provider is set,
// all instruments are no-ops.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns the global meter for the given instrumentation scope.
func Meter(name string) metric.Meter {
	return otel.GetMeterProvider().Meter(name)
}
