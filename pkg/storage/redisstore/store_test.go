package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

type fakeClient struct {
	values map[string]string
	ttl    time.Duration
	err    error
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.ttl = expiration
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestStoreRoundTrip(t *testing.T) {
	client := &fakeClient{values: map[string]string{}}
	store := New(client, Options{TTL: time.Hour})

	snapshot := settings.Domain{
		ID:            settings.DomainSystem,
		SchemaVersion: 2,
		Sections: map[string]settings.Section{
			"storage": {"allowed_file_types": []string{"jpg", "png"}},
		},
	}
	require.NoError(t, store.Save(context.Background(), settings.DomainSystem, snapshot))
	assert.Contains(t, client.values, DefaultPrefix+settings.DomainSystem)
	assert.Equal(t, time.Hour, client.ttl)

	loaded, err := store.Load(context.Background(), settings.DomainSystem)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.SchemaVersion)
	assert.Equal(t, []any{"jpg", "png"}, loaded.Sections["storage"]["allowed_file_types"])
}

func TestStoreLoadMissing(t *testing.T) {
	store := New(&fakeClient{values: map[string]string{}}, Options{Prefix: "test:"})

	_, err := store.Load(context.Background(), settings.DomainSEO)
	require.ErrorIs(t, err, settings.ErrNotFound)
	assert.Equal(t, "test:seo", store.Key(settings.DomainSEO))
}

func TestStoreLoadPropagatesErrors(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	store := New(&fakeClient{err: boom}, Options{})

	_, err := store.Load(context.Background(), settings.DomainSEO)
	require.ErrorIs(t, err, boom)

	store = New(&fakeClient{values: map[string]string{DefaultPrefix + "seo": "{"}}, Options{})
	_, err = store.Load(context.Background(), settings.DomainSEO)
	require.Error(t, err)
}
