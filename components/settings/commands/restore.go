package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// RestoreInput applies a backup document as unsaved edits.
type RestoreInput struct {
	Document *settings.BackupDocument `json:"document"`
	Actor
}

type restoreService interface {
	Restore(ctx context.Context, doc *settings.BackupDocument) error
}

// RestoreCommand wraps Page.Restore.
type RestoreCommand struct {
	service   restoreService
	telemetry Telemetry
}

// NewRestoreCommand creates the command.
func NewRestoreCommand(service restoreService, telemetry Telemetry) *RestoreCommand {
	return &RestoreCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RestoreInput] = (*RestoreCommand)(nil)

// Execute restores the document.
func (c *RestoreCommand) Execute(ctx context.Context, msg RestoreInput) error {
	if c.service == nil {
		return errors.New("restore command requires service")
	}
	if msg.Document == nil {
		return errors.New("restore command requires document")
	}
	ctx = msg.attach(ctx)
	if err := c.service.Restore(ctx, msg.Document); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.restore.command", map[string]any{
		"backup_id": msg.Document.ID,
		"domains":   len(msg.Document.Domains),
	})
	return nil
}
