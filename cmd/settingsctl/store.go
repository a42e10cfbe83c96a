package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/pkg/observability"
	"github.com/rza1914/ishop-settings/pkg/storage/httpstore"
	"github.com/rza1914/ishop-settings/pkg/storage/mongostore"
	"github.com/rza1914/ishop-settings/pkg/storage/redisstore"
	"github.com/rza1914/ishop-settings/pkg/storage/sqlstore"
)

// storeFlags selects the persistence backend shared by every subcommand.
type storeFlags struct {
	Store         string `default:"sqlite" env:"ISHOP_SETTINGS_STORE" enum:"memory,sqlite,postgres,mongo,redis,http" help:"Persistence backend."`
	DSN           string `default:"ishop-settings.db" env:"ISHOP_SETTINGS_DSN" help:"SQLite path or Postgres DSN."`
	MongoURI      string `name:"mongo-uri" default:"mongodb://localhost:27017" env:"ISHOP_MONGO_URI" help:"MongoDB connection URI."`
	MongoDatabase string `name:"mongo-db" default:"ishop" env:"ISHOP_MONGO_DB" help:"MongoDB database name."`
	RedisAddr     string `name:"redis-addr" default:"localhost:6379" env:"ISHOP_REDIS_ADDR" help:"Redis address."`
	RedisPassword string `name:"redis-password" env:"ISHOP_REDIS_PASSWORD" help:"Redis password."`
	RedisDB       int    `name:"redis-db" default:"0" env:"ISHOP_REDIS_DB" help:"Redis database index."`
	RemoteURL     string `name:"remote-url" env:"ISHOP_SETTINGS_REMOTE_URL" help:"Base URL of a remote settings API."`
	RemoteKey     string `name:"remote-key" env:"ISHOP_SETTINGS_REMOTE_KEY" help:"Bearer token for the remote settings API."`
	Manifest      string `type:"existingfile" env:"ISHOP_SETTINGS_MANIFEST" help:"Optional schema manifest replacing the built-in domains."`
	Locale        string `default:"fa" env:"ISHOP_LOCALE" help:"Locale used for prompts and messages."`
}

func (f storeFlags) openPersister(ctx context.Context) (settings.Persister, func(), error) {
	noop := func() {}
	switch f.Store {
	case "memory":
		return settings.NewInMemoryPersister(), noop, nil
	case "sqlite", "postgres":
		store, err := sqlstore.Open(f.Store, f.DSN)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(f.MongoURI))
		if err != nil {
			return nil, noop, fmt.Errorf("settingsctl: connect mongo: %w", err)
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		return mongostore.New(client.Database(f.MongoDatabase)), closer, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     f.RedisAddr,
			Password: f.RedisPassword,
			DB:       f.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("settingsctl: ping redis: %w", err)
		}
		return redisstore.New(client, redisstore.Options{}), func() { _ = client.Close() }, nil
	case "http":
		client, err := httpstore.NewHTTPClient(httpstore.HTTPConfig{BaseURL: f.RemoteURL, APIKey: f.RemoteKey})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	}
	return nil, noop, fmt.Errorf("settingsctl: unknown store %q", f.Store)
}

// openPage builds a page over the selected backend and loads persisted values.
func (f storeFlags) openPage(ctx context.Context, logger zerolog.Logger, opts settings.Options) (*settings.Page, func(), error) {
	persister, closer, err := f.openPersister(ctx)
	if err != nil {
		return nil, closer, err
	}
	if f.Manifest != "" {
		manifest, err := settings.ReadManifest(f.Manifest)
		if err != nil {
			closer()
			return nil, func() {}, err
		}
		opts.Schemas = manifest.Domains
	}
	opts.Persister = persister
	opts.Locale = f.Locale
	if opts.Telemetry == nil {
		opts.Telemetry = observability.LogTelemetry{Logger: logger}
	}
	page, err := settings.NewPage(opts)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	if err := page.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("some settings domains failed to load, defaults kept")
	}
	return page, closer, nil
}
