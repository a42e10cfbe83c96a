package usersink

import (
	"context"
	"errors"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/rza1914/ishop-settings/pkg/activity"
)

// Sink is the go-users activity sink contract.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook writes settings activity into the go-users activity log.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify maps evt into an ActivityRecord and logs it.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return errors.New("usersink: sink is required")
	}
	evt = activity.NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	data := make(map[string]any, len(evt.Metadata)+2)
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	return h.Sink.Log(ctx, types.ActivityRecord{
		ActorID:    parseID(evt.ActorID),
		UserID:     parseID(evt.UserID),
		TenantID:   parseID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	})
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
