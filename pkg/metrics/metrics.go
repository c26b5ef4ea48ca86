// Package metrics holds shared metric definitions backed by the OpenTelemetry
// metric API.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "resolver"

// Batch records outcomes of batch identifier resolutions.
type Batch struct {
	found    metric.Int64Counter
	notFound metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewBatch creates the batch instruments on the meter provider. A nil provider
// yields instruments that record nothing.
func NewBatch(mp metric.MeterProvider) (*Batch, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(meterName)

	var (
		b   Batch
		err error
	)
	b.found, err = meter.Int64Counter(
		"batch.ids.found",
		metric.WithDescription("Identifiers resolved to a value"),
		metric.WithUnit("{id}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create found counter: %w", err)
	}

	b.notFound, err = meter.Int64Counter(
		"batch.ids.not_found",
		metric.WithDescription("Identifiers with no matching value"),
		metric.WithUnit("{id}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create not found counter: %w", err)
	}

	b.failures, err = meter.Int64Counter(
		"batch.failures",
		metric.WithDescription("Batches aborted by a lookup failure"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create failures counter: %w", err)
	}

	b.duration, err = meter.Float64Histogram(
		"batch.duration",
		metric.WithDescription("Time spent resolving a batch"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &b, nil
}

// Observe records one batch resolution. source names the caller. Observe on a
// nil *Batch is a no-op.
func (b *Batch) Observe(ctx context.Context, source string, found, notFound int, elapsed time.Duration, err error) {
	if b == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))

	b.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		b.failures.Add(ctx, 1, attrs)

		return
	}
	b.found.Add(ctx, int64(found), attrs)
	b.notFound.Add(ctx, int64(notFound), attrs)
}
