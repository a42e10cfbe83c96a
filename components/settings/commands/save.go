package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// SaveAllInput triggers the page wide save. Result, when set, receives the
// per-domain outcome even if some domains failed.
type SaveAllInput struct {
	Actor
	Result *settings.SaveResult `json:"-"`
}

type saveService interface {
	SaveAll(ctx context.Context) (settings.SaveResult, error)
}

// SaveAllCommand wraps Page.SaveAll.
type SaveAllCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveAllCommand creates the command.
func NewSaveAllCommand(service saveService, telemetry Telemetry) *SaveAllCommand {
	return &SaveAllCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveAllInput] = (*SaveAllCommand)(nil)

// Execute persists every domain.
func (c *SaveAllCommand) Execute(ctx context.Context, msg SaveAllInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	ctx = msg.attach(ctx)
	result, err := c.service.SaveAll(ctx)
	if msg.Result != nil {
		*msg.Result = result
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.save.command", map[string]any{
		"save_id":     result.ID,
		"saved":       len(result.Saved),
		"still_dirty": len(result.StillDirty),
	})
	return nil
}
