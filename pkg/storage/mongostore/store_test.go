package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

type fakeCollection struct {
	docs     map[string]document
	upserted bool
}

func (f *fakeCollection) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	id := filter.(bson.M)["_id"].(string)
	doc, ok := f.docs[id]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func (f *fakeCollection) ReplaceOne(_ context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	for _, opt := range opts {
		if opt != nil && opt.Upsert != nil {
			f.upserted = *opt.Upsert
		}
	}
	doc := replacement.(document)
	f.docs[filter.(bson.M)["_id"].(string)] = doc
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func TestStoreSaveAndLoad(t *testing.T) {
	collection := &fakeCollection{docs: map[string]document{}}
	store := NewWithCollection(collection)
	store.now = func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) }

	snapshot := settings.Domain{
		ID:            settings.DomainEcommerce,
		SchemaVersion: 1,
		Sections: map[string]settings.Section{
			"currency": {"code": "IRT", "symbol": "تومان"},
		},
	}
	ctx := settings.ContextWithActivity(context.Background(), settings.ActivityContext{ActorID: "admin"})
	require.NoError(t, store.Save(ctx, settings.DomainEcommerce, snapshot))

	assert.True(t, collection.upserted)
	saved := collection.docs[settings.DomainEcommerce]
	assert.Equal(t, "admin", saved.UpdatedBy)
	assert.Contains(t, saved.Payload, "IRT")

	loaded, err := store.Load(context.Background(), settings.DomainEcommerce)
	require.NoError(t, err)
	assert.Equal(t, "تومان", loaded.Sections["currency"]["symbol"])
	assert.Equal(t, 1, loaded.SchemaVersion)
}

func TestLoadErrorMapsNoDocuments(t *testing.T) {
	assert.ErrorIs(t, loadError(mongo.ErrNoDocuments), settings.ErrNotFound)
	other := errors.New("connection refused")
	assert.Equal(t, other, loadError(other))
}
