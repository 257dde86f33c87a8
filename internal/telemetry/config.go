package telemetry

import (
	"errors"
	"fmt"
	"math"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is the service.name resource attribute and the Pyroscope
// application name.
const ServiceName = "radiusauth"

// instrumentationName names the tracer that creates every span.
const instrumentationName = "github.com/marmos91/radiusauth"

// DefaultEndpoint is the OTLP gRPC collector used when none is configured.
const DefaultEndpoint = "localhost:4317"

// ErrInvalidSampleRate is returned by Init for a rate outside [0, 1].
var ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")

// newSampler builds the sampler for telemetry.sample_rate.
//
// The rate applies to root spans only. A RADIUS exchange span follows the
// decision of the login or HTTP span that started it, so one login is
// either traced end to end or not at all.
func newSampler(rate float64) (sdktrace.Sampler, error) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, rate)
	}

	var root sdktrace.Sampler
	switch rate {
	case 1:
		root = sdktrace.AlwaysSample()
	case 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(root), nil
}
