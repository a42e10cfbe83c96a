package goadmin

import (
	"context"
	"errors"

	core "github.com/rza1914/ishop-settings/components/settings"
	activitypkg "github.com/rza1914/ishop-settings/pkg/activity"
	settingspkg "github.com/rza1914/ishop-settings/pkg/settings"
)

// MenuBuilder ensures the settings entry exists within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures settings link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the settings page and feature flags into an admin shell.
type Config struct {
	EnableSettings  bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Options         settingspkg.Options
	DefaultMenuItem MenuItem
	ActivityHooks   activitypkg.Hooks
	ActivityConfig  activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg  Config
	page *settingspkg.Page
}

// New builds the settings page when enabled. Activity hooks are chained after
// any change hook already present in the options.
func New(cfg Config) (*Admin, error) {
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = core.Message(core.MessageTitle, core.DefaultLocale)
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.settings"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "settings"
	}
	admin := &Admin{cfg: cfg}
	if !cfg.EnableSettings {
		return admin, nil
	}
	opts := cfg.Options
	if len(cfg.ActivityHooks) > 0 {
		emitter := activitypkg.NewEmitter(cfg.ActivityHooks, cfg.ActivityConfig)
		if opts.ChangeHook != nil {
			opts.ChangeHook = core.ChangeHooks{opts.ChangeHook, emitter}
		} else {
			opts.ChangeHook = emitter
		}
	}
	page, err := settingspkg.NewPage(opts)
	if err != nil {
		return nil, err
	}
	admin.page = page
	return admin, nil
}

// Settings exposes the configured page when enabled.
func (a *Admin) Settings() *settingspkg.Page {
	return a.page
}

// Bootstrap loads persisted values and seeds the menu entry when enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableSettings {
		return nil
	}
	if a.page == nil {
		return errors.New("goadmin: settings page is not configured")
	}
	if err := a.page.Load(ctx); err != nil {
		return err
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}
