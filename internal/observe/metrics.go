// Package observe provides application-wide observability primitives for
// capticore: OpenTelemetry metrics and tracing, and a trace-enriched
// structured logger.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A
// Prometheus exporter bridge is available via [InitProvider]; the
// capticore CLI does not call it and serves no /metrics endpoint. A
// package-level default [Metrics] instance ([DefaultMetrics]) is
// provided for convenience; tests should use [NewMetrics] with a custom
// metric.MeterProvider to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all capticore
// metrics.
const meterName = "github.com/floke75/soniox-converter"

// Metrics holds all OpenTelemetry metric instruments for the pipeline.
// All fields are safe for concurrent use — the underlying OTel types
// handle their own synchronisation.
type Metrics struct {
	// AssembleDuration tracks assembler wall-clock time.
	AssembleDuration metric.Float64Histogram

	// SegmentDuration tracks caption-segmenter wall-clock time.
	SegmentDuration metric.Float64Histogram

	// BucketDuration tracks kinetic-bucketiser wall-clock time.
	BucketDuration metric.Float64Histogram

	// SegmentsEmitted counts caption segments written by the emitters.
	SegmentsEmitted metric.Int64Counter

	// Warnings counts non-fatal conditions surfaced during a run (for
	// example UnknownLanguage). Use with attribute.String("kind", ...).
	Warnings metric.Int64Counter
}

// durationBuckets covers sub-millisecond to multi-second pipeline stage
// runs (spec.md §5: milliseconds to low hundreds of milliseconds for
// transcripts up to five hours).
var durationBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the
// given metric.MeterProvider. Returns an error if any instrument
// creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AssembleDuration, err = m.Float64Histogram("capticore.assemble.duration",
		metric.WithDescription("Wall-clock time of one Assemble call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SegmentDuration, err = m.Float64Histogram("capticore.segment.duration",
		metric.WithDescription("Wall-clock time of one Segment call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BucketDuration, err = m.Float64Histogram("capticore.bucket.duration",
		metric.WithDescription("Wall-clock time of one Bucketise call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SegmentsEmitted, err = m.Int64Counter("capticore.segments.emitted",
		metric.WithDescription("Total caption segments written by the emitters."),
	); err != nil {
		return nil, err
	}
	if met.Warnings, err = m.Int64Counter("capticore.warnings",
		metric.WithDescription("Total non-fatal warnings surfaced during a run, by kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating
// it on first call using otel.GetMeterProvider. Subsequent calls return
// the same pointer. Panics if instrument creation fails (should not
// happen with the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordWarning is a convenience method that records a warning counter
// increment tagged with kind (e.g. "UnknownLanguage").
func (m *Metrics) RecordWarning(ctx context.Context, kind string) {
	m.Warnings.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
