package activity

import (
	"context"
	"slices"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

// DefaultChannel tags events emitted without an explicit channel.
const DefaultChannel = "settings"

// ObjectType is recorded on every settings event.
const ObjectType = "settings.domain"

// Config toggles activity emission.
type Config struct {
	Enabled bool
	Channel string
	// Reasons limits which change reasons are forwarded. Empty forwards
	// save, reset, and restore.
	Reasons []string
}

// Emitter forwards events to hooks when enabled.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter builds an emitter.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if len(cfg.Reasons) == 0 {
		cfg.Reasons = []string{"save", "reset", "restore"}
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether events will reach at least one hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit sends evt to every hook.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}

// SettingsChanged turns a settings change into an activity event so the
// emitter can be installed as the page change hook.
func (e *Emitter) SettingsChanged(ctx context.Context, change settings.ChangeEvent) error {
	if !e.Enabled() || !slices.Contains(e.cfg.Reasons, change.Reason) {
		return nil
	}
	return e.Emit(ctx, FromChange(change))
}

var _ settings.ChangeHook = (*Emitter)(nil)

// FromChange maps a settings change event into an activity event.
func FromChange(change settings.ChangeEvent) Event {
	evt := Event{
		Verb:           "settings." + change.Reason,
		ActorID:        change.ActorID,
		UserID:         change.UserID,
		TenantID:       change.TenantID,
		ObjectType:     ObjectType,
		ObjectID:       change.Domain,
		DefinitionCode: change.Domain + ":" + change.Reason,
		Metadata: map[string]any{
			"dirty": change.Dirty,
		},
		OccurredAt: change.OccurredAt,
	}
	if len(change.Paths) > 0 {
		paths := make([]string, 0, len(change.Paths))
		for _, path := range change.Paths {
			paths = append(paths, path.String())
		}
		evt.Metadata["paths"] = paths
	}
	return evt
}
