package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifications struct {
	reasons []string
}

func (r *recordingNotifications) PublishSettingsEvent(_ context.Context, event ChangeEvent) error {
	r.reasons = append(r.reasons, event.Reason)
	return nil
}

func TestNotificationsHookSkipsEdits(t *testing.T) {
	client := &recordingNotifications{}
	page := newTestPage(t, Options{ChangeHook: &NotificationsHook{Client: client}})

	require.NoError(t, page.Set(CurrencyCodePath, "IRT"))
	require.NoError(t, page.ResetAll(context.Background(), StaticConfirmer(true)))

	assert.Equal(t, []string{"reset"}, client.reasons)
}

func TestNotificationsHookIncludeEdits(t *testing.T) {
	client := &recordingNotifications{}
	hook := &NotificationsHook{Client: client, IncludeEdits: true}

	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Domain: DomainSEO, Reason: "set"}))
	assert.Equal(t, []string{"set"}, client.reasons)

	var empty *NotificationsHook
	assert.NoError(t, empty.SettingsChanged(context.Background(), ChangeEvent{}))
}
