// Package telemetry exposes the service counters through OpenTelemetry.
// Metrics are exported over OTLP/gRPC when an endpoint is configured and
// are collected in process otherwise.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/talx-hub/gopher-rewards/internal/model"
)

const (
	meterName      = "github.com/talx-hub/gopher-rewards"
	serviceName    = "gopher-rewards"
	exportInterval = 15 * time.Second
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	decisions metric.Int64Counter
	spends    metric.Int64Counter
	spent     metric.Int64Counter
	webhooks  metric.Int64Counter
	entries   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	var (
		m    Metrics
		errs []error
		err  error
	)

	m.decisions, err = meter.Int64Counter("rewards.policy.decisions",
		metric.WithDescription("Eligibility decisions by kind"),
		metric.WithUnit("{decision}"))
	errs = append(errs, err)
	m.spends, err = meter.Int64Counter("rewards.spend.requests",
		metric.WithDescription("Spend requests by result"),
		metric.WithUnit("{request}"))
	errs = append(errs, err)
	m.spent, err = meter.Int64Counter("rewards.spend.amount",
		metric.WithDescription("Amount debited by approved spends"),
		metric.WithUnit("{cent}"))
	errs = append(errs, err)
	m.webhooks, err = meter.Int64Counter("rewards.webhook.events",
		metric.WithDescription("Processed webhook events by type and outcome"),
		metric.WithUnit("{event}"))
	errs = append(errs, err)
	m.entries, err = meter.Int64Counter("rewards.ledger.entries",
		metric.WithDescription("Ledger entries appended through the API by reason"),
		metric.WithUnit("{entry}"))
	errs = append(errs, err)

	if err = errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	return &m, nil
}

func (m *Metrics) RecordDecision(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", kind)))
}

func (m *Metrics) RecordSpend(ctx context.Context, result string, amount model.Amount) {
	if m == nil {
		return
	}
	m.spends.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	if amount.IsPositive() {
		m.spent.Add(ctx, amount.Cents())
	}
}

func (m *Metrics) RecordWebhook(ctx context.Context, eventType, status string) {
	if m == nil {
		return
	}
	m.webhooks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordEntry(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	Metrics       *Metrics
}

// Setup installs a global meter provider. An empty endpoint keeps metrics
// in process without any exporter.
func Setup(ctx context.Context, endpoint string) (*Provider, error) {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if endpoint != "" {
		exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(endpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	metrics, err := New(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	return &Provider{meterProvider: mp, Metrics: metrics}, nil
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
