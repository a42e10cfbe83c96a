package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/pkg/storage"
)

// DefaultCollection holds one document per settings domain.
const DefaultCollection = "settings_domains"

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

type document struct {
	ID            string    `bson:"_id"`
	SchemaVersion int       `bson:"schema_version"`
	Payload       string    `bson:"payload"`
	UpdatedBy     string    `bson:"updated_by,omitempty"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// Store persists settings domains in MongoDB.
type Store struct {
	collection Collection
	now        func() time.Time
}

var _ settings.Persister = (*Store)(nil)

// New wraps db.Collection(DefaultCollection).
func New(db *mongo.Database) *Store {
	return NewWithCollection(db.Collection(DefaultCollection))
}

// NewWithCollection uses an explicit collection.
func NewWithCollection(collection Collection) *Store {
	return &Store{collection: collection, now: time.Now}
}

// Save upserts the domain document.
func (s *Store) Save(ctx context.Context, domainID string, snapshot settings.Domain) error {
	payload, err := storage.EncodeSections(snapshot)
	if err != nil {
		return err
	}
	doc := document{
		ID:            domainID,
		SchemaVersion: snapshot.SchemaVersion,
		Payload:       string(payload),
		UpdatedBy:     settings.ActivityFromContext(ctx).Who(),
		UpdatedAt:     s.now().UTC(),
	}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": domainID}, doc, options.Replace().SetUpsert(true))
	return err
}

// Load returns settings.ErrNotFound when the domain was never saved.
func (s *Store) Load(ctx context.Context, domainID string) (settings.Domain, error) {
	var doc document
	if err := s.collection.FindOne(ctx, bson.M{"_id": domainID}).Decode(&doc); err != nil {
		return settings.Domain{}, loadError(err)
	}
	return storage.DecodeDomain(domainID, doc.SchemaVersion, []byte(doc.Payload))
}

func loadError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return settings.ErrNotFound
	}
	return err
}
