// Package observability implements the settings Telemetry contract with
// structured logs and Prometheus metrics.
package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

// LogTelemetry writes every event as one zerolog entry.
type LogTelemetry struct {
	Logger zerolog.Logger
}

var _ settings.Telemetry = LogTelemetry{}

// Record logs event with its payload and the actor from ctx.
func (t LogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	entry := t.Logger.Info()
	if isFailure(event) {
		entry = t.Logger.Warn()
	}
	if actor := settings.ActivityFromContext(ctx).ActorID; actor != "" {
		entry = entry.Str("actor_id", actor)
	}
	entry.Fields(payload).Str("event", event).Msg("settings telemetry")
}

// Metrics counts telemetry events by name and domain.
type Metrics struct {
	events *prometheus.CounterVec
	saving *prometheus.GaugeVec
}

var _ settings.Telemetry = (*Metrics)(nil)

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ishop",
			Subsystem: "settings",
			Name:      "events_total",
			Help:      "Settings telemetry events by name and domain.",
		}, []string{"event", "domain"}),
		saving: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ishop",
			Subsystem: "settings",
			Name:      "last_save_domains",
			Help:      "Domains saved and failed by the most recent save.",
		}, []string{"outcome"}),
	}
	for _, collector := range []prometheus.Collector{m.events, m.saving} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("observability: register metrics: %w", err)
		}
	}
	return m, nil
}

// Record implements settings.Telemetry.
func (m *Metrics) Record(_ context.Context, event string, payload map[string]any) {
	domain, _ := payload["domain"].(string)
	m.events.WithLabelValues(event, domain).Inc()
	if event != "settings.save" {
		return
	}
	if saved, ok := payload["saved"].(int); ok {
		m.saving.WithLabelValues("saved").Set(float64(saved))
	}
	if failed, ok := payload["failed"].(int); ok {
		m.saving.WithLabelValues("failed").Set(float64(failed))
	}
}

// Multi fans events out to several sinks.
type Multi []settings.Telemetry

// Record implements settings.Telemetry.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, sink := range m {
		if sink != nil {
			sink.Record(ctx, event, payload)
		}
	}
}

func isFailure(event string) bool {
	for _, suffix := range []string{".error", ".rejected", ".unknown", ".declined"} {
		if strings.HasSuffix(event, suffix) {
			return true
		}
	}
	return false
}
