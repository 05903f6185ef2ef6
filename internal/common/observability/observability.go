package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Observability owns the OpenTelemetry meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider

	tracer          trace.Tracer
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
	deliveryCounter otelmetric.Int64Counter
}

// New wires a prometheus-backed meter provider and, when jaegerEndpoint is set, a batching tracer.
func New(serviceName, jaegerEndpoint string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	mp := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(mp)

	o := &Observability{meterProvider: mp}

	if jaegerEndpoint != "" {
		jexp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			_ = mp.Shutdown(context.Background())
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(jexp), sdktrace.WithResource(res))
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(serviceName)
	} else {
		o.tracer = tracenoop.NewTracerProvider().Tracer(serviceName)
	}

	if err := o.instrument(mp.Meter(serviceName)); err != nil {
		return nil, err
	}
	return o, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	o := &Observability{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
	_ = o.instrument(metricnoop.NewMeterProvider().Meter("noop"))
	return o
}

func (o *Observability) instrument(meter otelmetric.Meter) error {
	var err error
	if o.requestCounter, err = meter.Int64Counter(
		"http.server.requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	); err != nil {
		return fmt.Errorf("create request counter: %w", err)
	}
	if o.requestDuration, err = meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	); err != nil {
		return fmt.Errorf("create request histogram: %w", err)
	}
	if o.deliveryCounter, err = meter.Int64Counter(
		"dashboard.deliveries",
		otelmetric.WithDescription("Notification rows and broadcast emails by channel and result"),
	); err != nil {
		return fmt.Errorf("create delivery counter: %w", err)
	}
	return nil
}

func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	o.requestCounter.Add(ctx, 1, attrs)
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordDeliveries counts outcomes for a channel ("notification" or "email").
func (o *Observability) RecordDeliveries(ctx context.Context, channel string, succeeded, failed int) {
	if succeeded > 0 {
		o.deliveryCounter.Add(ctx, int64(succeeded), otelmetric.WithAttributes(
			attribute.String("channel", channel), attribute.String("result", "success"),
		))
	}
	if failed > 0 {
		o.deliveryCounter.Add(ctx, int64(failed), otelmetric.WithAttributes(
			attribute.String("channel", channel), attribute.String("result", "failure"),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
