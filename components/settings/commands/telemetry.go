package commands

import (
	"context"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

// Telemetry receives one event per successful command.
type Telemetry = settings.Telemetry

var discard Telemetry = settings.TelemetryFunc(func(context.Context, string, map[string]any) {})

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discard
	}
	return t
}
