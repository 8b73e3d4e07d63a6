package config

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cerrors "github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

const (
	defaultDatabase    = "cdnfetch"
	settingsCollection = "settings"
)

type settingsDoc struct {
	ID        string           `bson:"_id"`
	Config    *provider.Config `bson:"config"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// MongoStore keeps the configuration in one document of the settings
// collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri. The database comes from database, then
// from the URI path, then defaults to "cdnfetch".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = databaseFromURI(uri)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "ping mongodb")
	}
	s := NewMongoStoreFromClient(client, database)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close leaves it
// connected.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	if database == "" {
		database = defaultDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(settingsCollection),
	}
}

func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return defaultDatabase
}

// Location returns database.collection/key.
func (s *MongoStore) Location() string {
	return s.coll.Database().Name() + "." + s.coll.Name() + "/" + StorageKey
}

// Load reads the configuration document.
func (s *MongoStore) Load(ctx context.Context) (*provider.Config, error) {
	var doc settingsDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": StorageKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return provider.DefaultConfig(), nil
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "load %s", StorageKey)
	}
	return normalize(doc.Config), nil
}

// Save upserts the configuration document.
func (s *MongoStore) Save(ctx context.Context, cfg *provider.Config) error {
	doc := settingsDoc{ID: StorageKey, Config: cfg, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": StorageKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "save %s", StorageKey)
	}
	return nil
}

// Close disconnects a client created by NewMongoStore.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
