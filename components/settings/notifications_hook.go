package settings

import "context"

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishSettingsEvent(ctx context.Context, event ChangeEvent) error
}

// NotificationsHook forwards lifecycle changes to an external notifications
// client. Field edits are skipped unless IncludeEdits is set.
type NotificationsHook struct {
	Client       NotificationsClient
	IncludeEdits bool
}

// SettingsChanged publishes events to the configured notifications client.
func (h *NotificationsHook) SettingsChanged(ctx context.Context, event ChangeEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if event.Reason == "set" && !h.IncludeEdits {
		return nil
	}
	return h.Client.PublishSettingsEvent(ctx, event)
}
