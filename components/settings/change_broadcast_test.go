package settings

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()

	event := ChangeEvent{Domain: DomainEcommerce, Reason: "set"}
	require.NoError(t, hook.SettingsChanged(context.Background(), event))

	select {
	case e := <-ch:
		assert.Equal(t, DomainEcommerce, e.Domain)
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersByDomain(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe(DomainPayments, "")
	defer cancel()

	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Domain: DomainGeneral, Reason: "set"}))
	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Domain: DomainPayments, Reason: "save"}))

	select {
	case e := <-ch:
		assert.Equal(t, DomainPayments, e.Domain)
	default:
		t.Fatalf("expected payments event")
	}
	select {
	case e := <-ch:
		t.Fatalf("unexpected event for %s", e.Domain)
	default:
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{}))
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Reason: "set"}))
	}
}

type failingHook struct{ err error }

func (h failingHook) SettingsChanged(context.Context, ChangeEvent) error { return h.err }

func TestChangeHooksJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	hooks := ChangeHooks{failingHook{}, nil, failingHook{err: boom}}

	err := hooks.SettingsChanged(context.Background(), ChangeEvent{})
	require.ErrorIs(t, err, boom)
}

func TestPageRecordsHookFailures(t *testing.T) {
	telemetry := &recordingTelemetry{}
	page := newTestPage(t, Options{ChangeHook: failingHook{err: errors.New("down")}, Telemetry: telemetry})

	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))
	assert.True(t, telemetry.has("settings.hook.error"))
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		hook.mu.RLock()
		defer hook.mu.RUnlock()
		return len(hook.subs) == 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Domain: DomainSEO, Reason: "save"}))

	var got ChangeEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, DomainSEO, got.Domain)
	assert.Equal(t, "save", got.Reason)
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool {
		hook.mu.RLock()
		defer hook.mu.RUnlock()
		return len(hook.subs) == 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.SettingsChanged(context.Background(), ChangeEvent{Domain: DomainShipping, Reason: "reset"}))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "))
	var got ChangeEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &got))
	assert.Equal(t, DomainShipping, got.Domain)
}
