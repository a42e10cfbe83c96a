package settings

import "context"

// ActivityContext names who triggered a settings change.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

// Empty reports whether no identifier is set.
func (a ActivityContext) Empty() bool {
	return a.ActorID == "" && a.UserID == "" && a.TenantID == ""
}

// Who returns the actor id, falling back to the user id.
func (a ActivityContext) Who() string {
	if a.ActorID != "" {
		return a.ActorID
	}
	return a.UserID
}

type activityKey struct{}

// ContextWithActivity attaches meta to ctx. Blank fields inherit what ctx
// already carries.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	prev := ActivityFromContext(ctx)
	if meta.ActorID == "" {
		meta.ActorID = prev.ActorID
	}
	if meta.UserID == "" {
		meta.UserID = prev.UserID
	}
	if meta.TenantID == "" {
		meta.TenantID = prev.TenantID
	}
	if meta.Empty() || meta == prev {
		return ctx
	}
	return context.WithValue(ctx, activityKey{}, meta)
}

// ActivityFromContext returns the activity attached to ctx, or the zero value.
func ActivityFromContext(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	meta, _ := ctx.Value(activityKey{}).(ActivityContext)
	return meta
}
