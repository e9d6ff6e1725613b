package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/wolfeidau/saasframework"

// Guard names and outcomes recorded by RecordGuardDecision.
const (
	GuardAuth       = "auth"
	GuardPermission = "permission"

	OutcomeAllowed         = "allowed"
	OutcomeMissingToken    = "missing_token"
	OutcomeInvalidToken    = "invalid_token"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeDenied          = "denied"
)

// Metrics holds the OpenTelemetry instruments used by the request guards.
type Metrics struct {
	GuardDecisionsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the process wide instruments, creating them against the
// global meter provider on first use.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = newMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return metrics
}

func newMetrics(meter metric.Meter) *Metrics {
	m := &Metrics{}

	m.GuardDecisionsTotal, _ = meter.Int64Counter(
		"saasframework.guard.decisions.total",
		metric.WithDescription("Total number of request guard decisions"),
		metric.WithUnit("{decision}"),
	)

	return m
}

// RecordGuardDecision counts one guard outcome.
func (m *Metrics) RecordGuardDecision(ctx context.Context, guard, outcome string) {
	if m == nil || m.GuardDecisionsTotal == nil {
		return
	}
	m.GuardDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("guard", guard),
		attribute.String("outcome", outcome),
	))
}
