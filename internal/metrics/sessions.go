package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionCounter reports how many vault sessions are in each state.
type SessionCounter interface {
	SessionCounts() (unlocked, locked int)
}

// RegisterSessionGauge exports <namespace>_vault_sessions{state="unlocked"|"locked"},
// read from counter at every scrape.
func RegisterSessionGauge(meterProvider metric.MeterProvider, namespace string, counter SessionCounter) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_vault_sessions", namespace),
		metric.WithDescription("Number of known vault sessions by lock state"),
		metric.WithUnit("{session}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			unlocked, locked := counter.SessionCounts()
			o.Observe(int64(unlocked), metric.WithAttributes(attribute.String("state", "unlocked")))
			o.Observe(int64(locked), metric.WithAttributes(attribute.String("state", "locked")))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create session gauge: %w", err)
	}
	return nil
}
