package activity

import (
	"context"
	"testing"
	"time"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

type recordingHook struct {
	events []Event
}

func (h *recordingHook) Notify(_ context.Context, evt Event) error {
	h.events = append(h.events, evt)
	return nil
}

func TestEmitterDefaultsChannelAndEmits(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true})
	if !em.Enabled() {
		t.Fatalf("expected emitter enabled")
	}
	err := em.Emit(context.Background(), Event{
		Verb:       "settings.save",
		ObjectType: ObjectType,
		ObjectID:   "ecommerce",
	})
	if err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	if len(hook.events) != 1 {
		t.Fatalf("expected event emitted, got %d", len(hook.events))
	}
	if hook.events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel settings, got %q", hook.events[0].Channel)
	}
}

func TestEmitterDisabledWithoutHooks(t *testing.T) {
	em := NewEmitter(nil, Config{Enabled: true})
	if em.Enabled() {
		t.Fatalf("expected emitter disabled without hooks")
	}
}

func TestEmitterForwardsLifecycleChanges(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true})
	at := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	_ = em.SettingsChanged(context.Background(), settings.ChangeEvent{Domain: "seo", Reason: "set", Dirty: true})
	if len(hook.events) != 0 {
		t.Fatalf("expected field edits to be skipped, got %d events", len(hook.events))
	}

	err := em.SettingsChanged(context.Background(), settings.ChangeEvent{
		Domain:     "ecommerce",
		Reason:     "save",
		ActorID:    "admin",
		Paths:      []settings.FieldPath{settings.CurrencyCodePath},
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("settings changed returned error: %v", err)
	}
	if len(hook.events) != 1 {
		t.Fatalf("expected save to be forwarded, got %d events", len(hook.events))
	}
	evt := hook.events[0]
	if evt.Verb != "settings.save" || evt.ObjectID != "ecommerce" || evt.ActorID != "admin" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.DefinitionCode != "ecommerce:save" {
		t.Fatalf("unexpected definition code %q", evt.DefinitionCode)
	}
	paths, ok := evt.Metadata["paths"].([]string)
	if !ok || len(paths) != 1 || paths[0] != "ecommerce.currency.code" {
		t.Fatalf("expected paths metadata, got %v", evt.Metadata["paths"])
	}
	if !evt.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at %v, got %v", at, evt.OccurredAt)
	}
}

func TestEmitterCustomReasons(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true, Reasons: []string{"set"}})

	_ = em.SettingsChanged(context.Background(), settings.ChangeEvent{Domain: "seo", Reason: "save"})
	_ = em.SettingsChanged(context.Background(), settings.ChangeEvent{Domain: "seo", Reason: "set"})

	if len(hook.events) != 1 || hook.events[0].Verb != "settings.set" {
		t.Fatalf("expected only set events, got %+v", hook.events)
	}
}

func TestEmitterInstalledOnPage(t *testing.T) {
	hook := &recordingHook{}
	page, err := settings.NewPage(settings.Options{ChangeHook: NewEmitter(Hooks{hook}, Config{Enabled: true})})
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := page.Set(settings.CurrencyCodePath, "IRT"); err != nil {
		t.Fatalf("set: %v", err)
	}
	ctx := settings.ContextWithActivity(context.Background(), settings.ActivityContext{ActorID: "admin"})
	if _, err := page.SaveAll(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(hook.events) != len(page.Domains()) {
		t.Fatalf("expected one save event per domain, got %d", len(hook.events))
	}
	for _, evt := range hook.events {
		if evt.ActorID != "admin" || evt.Channel != DefaultChannel {
			t.Fatalf("unexpected event %+v", evt)
		}
	}
}
