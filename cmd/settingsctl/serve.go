package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/components/settings/gorouter"
	"github.com/rza1914/ishop-settings/components/settings/httpapi"
	"github.com/rza1914/ishop-settings/pkg/activity"
	"github.com/rza1914/ishop-settings/pkg/observability"
)

type serveCmd struct {
	storeFlags

	Addr        string        `default:":8080" env:"ISHOP_ADDR" help:"Admin HTTP listen address."`
	MetricsAddr string        `name:"metrics-addr" default:":9090" env:"ISHOP_METRICS_ADDR" help:"Prometheus listen address; empty disables it."`
	BasePath    string        `name:"base-path" default:"/admin" env:"ISHOP_BASE_PATH" help:"Route prefix for the settings pages."`
	SaveTimeout time.Duration `name:"save-timeout" default:"10s" env:"ISHOP_SAVE_TIMEOUT" help:"Per-domain persistence timeout."`
	BackupCron  string        `name:"backup-cron" env:"ISHOP_BACKUP_CRON" help:"Cron spec (with seconds) for scheduled backups, e.g. '0 0 3 * * *'."`
	BackupDir   string        `name:"backup-dir" default:"backups" env:"ISHOP_BACKUP_DIR" help:"Directory receiving scheduled backups."`
	ThemeDir    string        `name:"theme-dir" type:"existingdir" env:"ISHOP_THEME_DIR" help:"Directory holding a templates/ folder that replaces the embedded page templates."`
}

func (cmd *serveCmd) Run(ctx context.Context, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	telemetry := observability.Multi{observability.LogTelemetry{Logger: logger}, metrics}
	broadcast := settings.NewBroadcastHook()
	audit := activity.NewEmitter(activity.Hooks{logActivity(logger)}, activity.Config{Enabled: true})

	page, closer, err := cmd.openPage(ctx, logger, settings.Options{
		Telemetry:   telemetry,
		ChangeHook:  settings.ChangeHooks{broadcast, audit},
		SaveTimeout: cmd.SaveTimeout,
	})
	defer closer()
	if err != nil {
		return err
	}

	var themes fs.FS
	if cmd.ThemeDir != "" {
		themes = os.DirFS(cmd.ThemeDir)
	}
	renderer, err := settings.NewTemplateRenderer(themes)
	if err != nil {
		return err
	}
	controller := settings.NewController(settings.ControllerOptions{Page: page, Renderer: renderer})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewHandlers(page, telemetry),
		Broadcast:  broadcast,
		BasePath:   cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("settingsctl: register routes: %w", err)
	}

	if cmd.BackupCron != "" {
		scheduler := cron.New(cron.WithSeconds())
		if _, err := scheduler.AddFunc(cmd.BackupCron, func() {
			path, err := writeBackupFile(context.Background(), page, cmd.BackupDir)
			if err != nil {
				logger.Error().Err(err).Msg("scheduled backup failed")
				return
			}
			logger.Info().Str("path", path).Msg("scheduled backup written")
		}); err != nil {
			return fmt.Errorf("settingsctl: backup schedule: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	if cmd.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: cmd.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
		defer metricsServer.Close()
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cmd.Addr).Str("base", cmd.BasePath).Msg("settings admin ready")
		errs <- server.Serve(cmd.Addr)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}

func logActivity(logger zerolog.Logger) activity.HookFunc {
	return func(_ context.Context, evt activity.Event) error {
		logger.Info().
			Str("verb", evt.Verb).
			Str("domain", evt.ObjectID).
			Str("actor_id", evt.ActorID).
			Time("occurred_at", evt.OccurredAt).
			Msg("settings activity")
		return nil
	}
}

func writeBackupFile(ctx context.Context, page *settings.Page, dir string) (string, error) {
	doc := page.Backup(ctx)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("settingsctl: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("settings-%s.yaml", doc.CreatedAt.Format("20060102-150405")))
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("settingsctl: create %s: %w", path, err)
	}
	defer file.Close()
	if err := settings.EncodeBackup(file, doc); err != nil {
		return "", err
	}
	return path, nil
}
