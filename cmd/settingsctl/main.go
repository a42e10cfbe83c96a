package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type cli struct {
	EnvFile  []string `name:"env-file" type:"existingfile" help:"Dotenv files loaded before flags are resolved."`
	LogLevel string   `name:"log-level" default:"info" env:"ISHOP_LOG_LEVEL" enum:"debug,info,warn,error" help:"Minimum log level."`

	Serve            serveCmd            `cmd:"" help:"Serve the settings admin page and API."`
	Export           exportCmd           `cmd:"" help:"Print persisted settings as YAML or environment variables."`
	Backup           backupCmd           `cmd:"" help:"Write a backup document of persisted settings."`
	Restore          restoreCmd          `cmd:"" help:"Restore settings from a backup document and persist them."`
	CheckTemplates   checkTemplatesCmd   `cmd:"" name:"check-templates" help:"Report notification templates with unknown placeholders."`
	ValidateManifest validateManifestCmd `cmd:"" name:"validate-manifest" help:"Validate a settings schema manifest."`
}

func main() {
	loadDotenv(os.Args[1:])
	var app cli
	ctx := kong.Parse(&app,
		kong.Description("Settings utility for the iShop admin panel."),
		kong.UsageOnError(),
	)
	logger := newLogger(app.LogLevel)
	ctx.Bind(logger)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// loadDotenv reads --env-file values ahead of kong so env-backed flags see them.
// Without any, .env is loaded when present.
func loadDotenv(args []string) {
	var files []string
	for idx, arg := range args {
		switch {
		case arg == "--env-file" && idx+1 < len(args):
			files = append(files, args[idx+1])
		case len(arg) > len("--env-file=") && arg[:len("--env-file=")] == "--env-file=":
			files = append(files, arg[len("--env-file="):])
		}
	}
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	_ = godotenv.Load(files...)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Str("service", "settingsctl").Logger()
}
