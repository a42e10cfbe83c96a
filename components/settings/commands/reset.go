package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// ResetAllInput discards unsaved edits. Confirmer takes precedence over
// Confirmed; transports that already asked the user pass Confirmed.
type ResetAllInput struct {
	Domain    string             `json:"domain,omitempty"`
	Confirmed bool               `json:"confirm"`
	Confirmer settings.Confirmer `json:"-"`
	Actor
}

type resetService interface {
	ResetAll(ctx context.Context, confirmer settings.Confirmer) error
	ResetDomain(ctx context.Context, domain string, confirmer settings.Confirmer) error
}

// ResetAllCommand wraps Page.ResetAll and Page.ResetDomain.
type ResetAllCommand struct {
	service   resetService
	telemetry Telemetry
}

// NewResetAllCommand creates the command.
func NewResetAllCommand(service resetService, telemetry Telemetry) *ResetAllCommand {
	return &ResetAllCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetAllInput] = (*ResetAllCommand)(nil)

// Execute resets one domain or every dirty domain.
func (c *ResetAllCommand) Execute(ctx context.Context, msg ResetAllInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	confirmer := msg.Confirmer
	if confirmer == nil {
		confirmer = settings.StaticConfirmer(msg.Confirmed)
	}
	ctx = msg.attach(ctx)
	var err error
	if msg.Domain != "" {
		err = c.service.ResetDomain(ctx, msg.Domain, confirmer)
	} else {
		err = c.service.ResetAll(ctx, confirmer)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.reset.command", map[string]any{
		"domain":   msg.Domain,
		"actor_id": msg.ActorID,
	})
	return nil
}
