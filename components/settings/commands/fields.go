package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// SetFieldInput writes one value. Text, when present, is parsed for the field
// kind the way form controls submit it; an empty text clears the control.
type SetFieldInput struct {
	Path  string  `json:"path"`
	Value any     `json:"value"`
	Text  *string `json:"text,omitempty"`
	Actor
}

type fieldService interface {
	Set(path settings.FieldPath, value any) error
	ParseAndSet(path settings.FieldPath, raw string) error
}

// SetFieldCommand wraps Page.Set.
type SetFieldCommand struct {
	service   fieldService
	telemetry Telemetry
}

// NewSetFieldCommand creates the command.
func NewSetFieldCommand(service fieldService, telemetry Telemetry) *SetFieldCommand {
	return &SetFieldCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetFieldInput] = (*SetFieldCommand)(nil)

// Execute validates the path and writes the value.
func (c *SetFieldCommand) Execute(ctx context.Context, msg SetFieldInput) error {
	if c.service == nil {
		return errors.New("set field command requires service")
	}
	path, err := settings.ParsePath(msg.Path)
	if err != nil {
		return err
	}
	ctx = msg.attach(ctx)
	if msg.Text != nil && msg.Value == nil {
		err = c.service.ParseAndSet(path, *msg.Text)
	} else {
		err = c.service.Set(path, msg.Value)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.field.set", map[string]any{
		"path":     path.String(),
		"actor_id": msg.ActorID,
	})
	return nil
}

// SetManyInput writes several values atomically.
type SetManyInput struct {
	Updates []settings.Update `json:"updates"`
	Actor
}

type batchService interface {
	SetMany(updates []settings.Update) error
}

// SetManyCommand wraps Page.SetMany.
type SetManyCommand struct {
	service   batchService
	telemetry Telemetry
}

// NewSetManyCommand creates the command.
func NewSetManyCommand(service batchService, telemetry Telemetry) *SetManyCommand {
	return &SetManyCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetManyInput] = (*SetManyCommand)(nil)

// Execute applies every update or none.
func (c *SetManyCommand) Execute(ctx context.Context, msg SetManyInput) error {
	if c.service == nil {
		return errors.New("set many command requires service")
	}
	if len(msg.Updates) == 0 {
		return errors.New("set many command requires updates")
	}
	ctx = msg.attach(ctx)
	if err := c.service.SetMany(msg.Updates); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.field.set_many", map[string]any{
		"updates":  len(msg.Updates),
		"actor_id": msg.ActorID,
	})
	return nil
}

// UpdateListItemInput edits one leaf inside a record or record list, e.g.
// payments.gateways.items with keys ["zibal", "enabled"].
type UpdateListItemInput struct {
	Path  string   `json:"path"`
	Keys  []string `json:"keys"`
	Value any      `json:"value"`
	Actor
}

type itemService interface {
	UpdateItem(path settings.FieldPath, keys []string, value any) error
}

// UpdateListItemCommand wraps Page.UpdateItem.
type UpdateListItemCommand struct {
	service   itemService
	telemetry Telemetry
}

// NewUpdateListItemCommand creates the command.
func NewUpdateListItemCommand(service itemService, telemetry Telemetry) *UpdateListItemCommand {
	return &UpdateListItemCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateListItemInput] = (*UpdateListItemCommand)(nil)

// Execute replaces the addressed leaf.
func (c *UpdateListItemCommand) Execute(ctx context.Context, msg UpdateListItemInput) error {
	if c.service == nil {
		return errors.New("update item command requires service")
	}
	path, err := settings.ParsePath(msg.Path)
	if err != nil {
		return err
	}
	if len(msg.Keys) == 0 {
		return errors.New("update item command requires keys")
	}
	ctx = msg.attach(ctx)
	if err := c.service.UpdateItem(path, msg.Keys, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "settings.item.update", map[string]any{
		"path": path.String(),
		"keys": msg.Keys,
	})
	return nil
}
