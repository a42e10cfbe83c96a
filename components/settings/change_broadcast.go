package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChangeEvent describes a settings mutation or lifecycle step.
type ChangeEvent struct {
	Domain     string      `json:"domain"`
	Reason     string      `json:"reason"`
	Paths      []FieldPath `json:"paths,omitempty"`
	Dirty      bool        `json:"dirty"`
	ActorID    string      `json:"actor_id,omitempty"`
	UserID     string      `json:"user_id,omitempty"`
	TenantID   string      `json:"tenant_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// ChangeHook receives settings change events.
type ChangeHook interface {
	SettingsChanged(ctx context.Context, event ChangeEvent) error
}

// ChangeHooks fans an event out to several hooks.
type ChangeHooks []ChangeHook

// SettingsChanged calls every hook and joins their errors.
func (hooks ChangeHooks) SettingsChanged(ctx context.Context, event ChangeEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.SettingsChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopChangeHook struct{}

func (noopChangeHook) SettingsChanged(context.Context, ChangeEvent) error { return nil }

// BroadcastHook fans out change events to in-process subscribers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	ch      chan ChangeEvent
	domains map[string]struct{}
}

func (s subscription) wants(domain string) bool {
	if len(s.domains) == 0 {
		return true
	}
	_, ok := s.domains[domain]
	return ok
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]subscription)}
}

// SettingsChanged satisfies ChangeHook. Slow subscribers miss events instead of blocking writers.
func (h *BroadcastHook) SettingsChanged(_ context.Context, event ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(event.Domain) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of change events and a cancel func. With
// domains given, only events for those domains are delivered.
func (h *BroadcastHook) Subscribe(domains ...string) (<-chan ChangeEvent, func()) {
	sub := subscription{ch: make(chan ChangeEvent, 8)}
	for _, domain := range domains {
		if domain == "" {
			continue
		}
		if sub.domains == nil {
			sub.domains = make(map[string]struct{}, len(domains))
		}
		sub.domains[domain] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = sub
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if current, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(current.ch)
		}
	}
	return sub.ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams change events as JSON.
// Repeated ?domain= parameters narrow the stream.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(r.URL.Query()["domain"]...)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for change events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe(r.URL.Query()["domain"]...)
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
