package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/components/settings/commands"
	"github.com/rza1914/ishop-settings/components/settings/httpapi"
	"github.com/rza1914/ishop-settings/components/settings/queries"
)

// ActorResolver extracts the acting admin from a router.Context.
type ActorResolver func(router.Context) commands.Actor

// Config wires go-router with the settings controller, API, and change hook.
type Config[T any] struct {
	Router        router.Router[T]
	Controller    *settings.Controller
	API           *httpapi.Handlers
	Broadcast     *settings.BroadcastHook
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for settings endpoints.
type RouteConfig struct {
	HTML      string
	Payload   string
	Status    string
	Snapshot  string
	Fields    string
	Items     string
	Save      string
	Reset     string
	Backup    string
	Restore   string
	WebSocket string
}

// Register mounts settings routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ActorResolver
	if resolver == nil {
		resolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), inferLocale(ctx), ctx.Query("tab"), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Payload, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Payload(ctx.Context(), inferLocale(ctx), ctx.Query("tab"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

type fieldsPayload struct {
	Path    string            `json:"path"`
	Value   any               `json:"value"`
	Text    *string           `json:"text"`
	Updates []settings.Update `json:"updates"`
}

func registerAPI[T any](r router.Router[T], api *httpapi.Handlers, resolver ActorResolver, routes RouteConfig) {
	if api.Status != nil {
		r.Get(routes.Status, router.WrapHandler(func(ctx router.Context) error {
			status, err := api.Status.Query(ctx.Context(), queries.StatusInput{})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, status)
		}))
	}

	if api.Backup != nil {
		r.Get(routes.Backup, router.WrapHandler(func(ctx router.Context) error {
			doc, err := api.Backup.Query(ctx.Context(), queries.BackupInput{})
			if err != nil {
				return respondError(ctx, err)
			}
			if ctx.Query("format") == "json" {
				return ctx.JSON(http.StatusOK, doc)
			}
			var buf bytes.Buffer
			if err := settings.EncodeBackup(&buf, doc); err != nil {
				return respondError(ctx, err)
			}
			ctx.SetHeader("Content-Type", "application/yaml")
			return ctx.Send(buf.Bytes())
		}))
	}

	if api.Snapshot != nil {
		r.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
			domain := ctx.Param("domain")
			if domain == "" {
				return respondStatus(ctx, http.StatusBadRequest, errors.New("domain is required"))
			}
			snapshot, err := api.Snapshot.Query(ctx.Context(), queries.SnapshotInput{Domain: domain})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, snapshot)
		}))
	}

	if api.SetField != nil && api.SetMany != nil {
		r.Post(routes.Fields, router.WrapHandler(func(ctx router.Context) error {
			var payload fieldsPayload
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondStatus(ctx, http.StatusBadRequest, err)
			}
			actor := resolver(ctx)
			var err error
			if len(payload.Updates) > 0 {
				err = api.SetMany.Execute(ctx.Context(), commands.SetManyInput{Updates: payload.Updates, Actor: actor})
			} else {
				err = api.SetField.Execute(ctx.Context(), commands.SetFieldInput{
					Path:  payload.Path,
					Value: payload.Value,
					Text:  payload.Text,
					Actor: actor,
				})
			}
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
		}))
	}

	if api.UpdateItem != nil {
		r.Post(routes.Items, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.UpdateListItemInput
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondStatus(ctx, http.StatusBadRequest, err)
			}
			payload.Actor = resolver(ctx)
			if err := api.UpdateItem.Execute(ctx.Context(), payload); err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
		}))
	}

	if api.Save != nil {
		r.Post(routes.Save, router.WrapHandler(func(ctx router.Context) error {
			var result settings.SaveResult
			err := api.Save.Execute(ctx.Context(), commands.SaveAllInput{Actor: resolver(ctx), Result: &result})
			switch {
			case err == nil:
				return ctx.JSON(http.StatusOK, result)
			case len(result.Failed) > 0:
				return ctx.JSON(http.StatusBadGateway, result)
			}
			return respondError(ctx, err)
		}))
	}

	if api.Reset != nil {
		r.Post(routes.Reset, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.ResetAllInput
			if body := ctx.Body(); len(body) > 0 {
				if err := json.Unmarshal(body, &payload); err != nil {
					return respondStatus(ctx, http.StatusBadRequest, err)
				}
			}
			payload.Actor = resolver(ctx)
			if err := api.Reset.Execute(ctx.Context(), payload); err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "reset"})
		}))
	}

	if api.Restore != nil {
		r.Post(routes.Restore, router.WrapHandler(func(ctx router.Context) error {
			doc, err := settings.DecodeBackup(bytes.NewReader(ctx.Body()))
			if err != nil {
				return respondStatus(ctx, http.StatusBadRequest, err)
			}
			if err := api.Restore.Execute(ctx.Context(), commands.RestoreInput{Document: doc, Actor: resolver(ctx)}); err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "restored"})
		}))
	}
}

func registerWebSocket[T any](r router.Router[T], hook *settings.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultActorResolver(ctx router.Context) commands.Actor {
	var actor commands.Actor
	if v, ok := ctx.Locals("actor_id").(string); ok {
		actor.ActorID = v
	}
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.UserID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		actor.TenantID = v
	}
	if actor.ActorID == "" {
		actor.ActorID = actor.UserID
	}
	return actor
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return settings.NegotiateLocale(locale)
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return settings.NegotiateLocale(locale)
	}
	return settings.NegotiateLocale(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusCode(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/settings"
	}
	if routes.Payload == "" {
		routes.Payload = "/settings/_payload"
	}
	if routes.Status == "" {
		routes.Status = "/settings/_status"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/settings/domains/:domain"
	}
	if routes.Fields == "" {
		routes.Fields = "/settings/fields"
	}
	if routes.Items == "" {
		routes.Items = "/settings/items"
	}
	if routes.Save == "" {
		routes.Save = "/settings/save"
	}
	if routes.Reset == "" {
		routes.Reset = "/settings/reset"
	}
	if routes.Backup == "" {
		routes.Backup = "/settings/backup"
	}
	if routes.Restore == "" {
		routes.Restore = "/settings/restore"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/settings/ws"
	}
	return routes
}
