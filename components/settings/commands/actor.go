package commands

import (
	"context"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

// Actor identifies who issued a command.
type Actor struct {
	ActorID  string `json:"actor_id"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

func (a Actor) attach(ctx context.Context) context.Context {
	return settings.ContextWithActivity(ctx, settings.ActivityContext{
		ActorID:  a.ActorID,
		UserID:   a.UserID,
		TenantID: a.TenantID,
	})
}
