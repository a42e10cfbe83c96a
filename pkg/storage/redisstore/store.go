package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/pkg/storage"
)

// DefaultPrefix namespaces the domain keys.
const DefaultPrefix = "ishop:settings:"

// Client is the subset of redis.Cmdable the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type entry struct {
	SchemaVersion int             `json:"schema_version"`
	Sections      json.RawMessage `json:"sections"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Options configures the store.
type Options struct {
	Prefix string
	// TTL expires stored domains. Zero keeps them forever.
	TTL time.Duration
}

// Store persists settings domains as JSON strings in Redis.
type Store struct {
	client Client
	opts   Options
}

var _ settings.Persister = (*Store)(nil)

// New builds a store over client.
func New(client Client, opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &Store{client: client, opts: opts}
}

// Key returns the redis key for domainID.
func (s *Store) Key(domainID string) string { return s.opts.Prefix + domainID }

// Save writes the domain under its key.
func (s *Store) Save(ctx context.Context, domainID string, snapshot settings.Domain) error {
	payload, err := storage.EncodeSections(snapshot)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{
		SchemaVersion: snapshot.SchemaVersion,
		Sections:      payload,
		UpdatedBy:     settings.ActivityFromContext(ctx).Who(),
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("redisstore: encode %s: %w", domainID, err)
	}
	return s.client.Set(ctx, s.Key(domainID), data, s.opts.TTL).Err()
}

// Load returns settings.ErrNotFound for missing keys.
func (s *Store) Load(ctx context.Context, domainID string) (settings.Domain, error) {
	raw, err := s.client.Get(ctx, s.Key(domainID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return settings.Domain{}, settings.ErrNotFound
	}
	if err != nil {
		return settings.Domain{}, err
	}
	var stored entry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return settings.Domain{}, fmt.Errorf("redisstore: decode %s: %w", domainID, err)
	}
	return storage.DecodeDomain(domainID, stored.SchemaVersion, stored.Sections)
}
